package validation

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength   = 255
	MaxContentLength = 10000
	MaxURLLength     = 2048
)

var (
	ErrTitleEmpty    = errors.New("Title cannot be empty")
	ErrTitleTooLong  = errors.New("Title must not exceed 255 characters")
	ErrContentEmpty  = errors.New("Content cannot be empty")
	ErrContentLength = errors.New("Content must not exceed 10000 characters")
	ErrURLTooLong    = errors.New("URL must not exceed 2048 characters")
	ErrInvalidParent = errors.New("Invalid parent_item_id")
)

// NormalizeTitle trims a checklist title and rejects blank or oversized ones.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// NormalizeContent trims item content and rejects blank or oversized text.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrContentEmpty
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrContentLength
	}
	return content, nil
}

// NormalizeURL trims raw and prefixes https:// when it has no http(s)
// scheme. Blank input yields nil.
func NormalizeURL(raw string) (*string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return nil, nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	if len(url) > MaxURLLength {
		return nil, ErrURLTooLong
	}
	return &url, nil
}

// ParseParentID reads an optional parent item reference. Blank input means
// a root item; anything but a positive integer is rejected.
func ParseParentID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, ErrInvalidParent
	}
	parent := uint(id)
	return &parent, nil
}
