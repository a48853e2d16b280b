package core

// HighScore is one named entry of a leaderboard.
type HighScore struct {
	Name  string
	Score int
}
