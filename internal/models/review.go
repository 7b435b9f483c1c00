package models

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gamescope/app/internal/backend"

	"golang.org/x/text/unicode/norm"
)

// Review content and display name limits, counted in characters.
const (
	MaxReviewLength      = 500
	MaxDisplayNameLength = 64
)

var (
	ErrContentEmpty   = errors.New("review content must not be empty")
	ErrContentTooLong = errors.New("review content must be at most 500 characters")
	ErrNameEmpty      = errors.New("display name must not be empty")
	ErrNameTooLong    = errors.New("display name must be at most 64 characters")
)

// Review is a user's text review of a game. UserName is a snapshot of the
// author's display name and may go stale until the fan-out rewrites it.
type Review struct {
	ID        string `doc:"-" json:"id"`
	GameID    string `doc:"gameId" json:"gameId"`
	UserID    string `doc:"userId" json:"userId"`
	UserName  string `doc:"userName" json:"userName"`
	Content   string `doc:"content" json:"content"`
	Timestamp string `doc:"timestamp" json:"timestamp"`
}

func (r Review) Key() string { return r.ID }

// DecodeReview builds a Review from a reviews document.
func DecodeReview(doc backend.Document) (Review, error) {
	var r Review
	if err := decodeDocument(doc, &r, "gameId", "userId", "userName", "content", "timestamp"); err != nil {
		return Review{}, err
	}
	r.ID = doc.ID
	return r, nil
}

// Fields returns the document body for r.
func (r Review) Fields() map[string]any {
	return map[string]any{
		"gameId":    r.GameID,
		"userId":    r.UserID,
		"userName":  r.UserName,
		"content":   r.Content,
		"timestamp": r.Timestamp,
	}
}

// NormalizeText trims surrounding whitespace and composes the text to NFC,
// so that visually identical input always counts the same length.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateReviewContent returns the normalized content, or an error when
// its length falls outside [1, MaxReviewLength].
func ValidateReviewContent(content string) (string, error) {
	content = NormalizeText(content)
	n := utf8.RuneCountInString(content)
	switch {
	case n == 0:
		return "", ErrContentEmpty
	case n > MaxReviewLength:
		return "", ErrContentTooLong
	}
	return content, nil
}

// ValidateDisplayName applies the same rules to account names.
func ValidateDisplayName(name string) (string, error) {
	name = NormalizeText(name)
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return "", ErrNameEmpty
	case n > MaxDisplayNameLength:
		return "", ErrNameTooLong
	}
	return name, nil
}
