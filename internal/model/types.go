// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Source selects where quotes come from.
type Source string

// Quote sources.
const (
	SourceAPI   Source = "api"
	SourceLocal Source = "local"
)

// Config defines practice settings.
type Config struct {
	Source   Source
	Endpoint string
	Timeout  time.Duration
	Retries  int
	LogFile  string
	LogLevel string
}

// Quote is the reference text a user types against.
type Quote struct {
	ID      string
	Content string
	Author  string
	Tags    []string
}

// Output returns the displayed line: the content followed by the author.
func (q Quote) Output() string {
	if q.Author == "" {
		return q.Content
	}
	return q.Content + " ~ " + q.Author
}

// StoredQuote is a quote kept in the local library.
type StoredQuote struct {
	Quote
	AddedAt time.Time
}

// TagList joins the tags for display.
func (q Quote) TagList() string {
	return strings.Join(q.Tags, ",")
}
