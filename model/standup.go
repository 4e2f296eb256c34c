package model

import "time"

// Question is one entry of the fixed question sequence.
type Question struct {
	Text  string `mapstructure:"question" json:"question"`
	Color string `mapstructure:"color" json:"color"`
}

// Answer is a recorded reply, carrying the question it was matched to.
type Answer struct {
	Question string `json:"question"`
	Color    string `json:"color"`
	Text     string `json:"answer"`
}

// Report is a published summary of one participant's answers.
type Report struct {
	CycleID         string
	ParticipantID   string
	ParticipantName string
	ChannelID       string
	MessageID       string
	Answers         []Answer
	PostedAt        time.Time
}
