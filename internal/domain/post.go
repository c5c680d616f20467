package domain

import (
	"encoding/json"
	"fmt"
)

type PostType string

const (
	PostTypeReels    PostType = "Reels"
	PostTypeCarousel PostType = "Carousel"
	PostTypeImage    PostType = "Image"
	PostTypeStory    PostType = "Story"
)

// PostTypes lists every accepted post type in declaration order.
var PostTypes = []PostType{PostTypeReels, PostTypeCarousel, PostTypeImage, PostTypeStory}

func ParsePostType(raw string) (PostType, error) {
	for _, t := range PostTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown post type %q", raw)
}

func (t PostType) Valid() bool {
	_, err := ParsePostType(string(t))
	return err == nil
}

func (t *PostType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePostType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PostStatus is the lifecycle state of a post plan.
// Uploaded exists for forward compatibility; nothing in the planner reaches it.
type PostStatus string

const (
	PostStatusPlanned   PostStatus = "planned"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusUploaded  PostStatus = "uploaded"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusPlanned, PostStatusScheduled, PostStatusUploaded:
		return true
	default:
		return false
	}
}

// Label returns the Korean action label shown next to a post.
func (s PostStatus) Label() string {
	switch s {
	case PostStatusScheduled:
		return "예약 완료됨"
	case PostStatusUploaded:
		return "업로드 완료"
	default:
		return "예약 대기열에 추가"
	}
}

type PostPlan struct {
	Day          int        `json:"day"`          // nominal day of month, not range-checked
	Title        string     `json:"title"`
	Type         PostType   `json:"type"`
	Caption      string     `json:"caption"`
	Hashtags     []string   `json:"hashtags"`     // without leading '#'
	VisualPrompt string     `json:"visualPrompt"` // visual guidance for the creative
	Status       PostStatus `json:"status"`
}

func (p PostPlan) IsPending() bool {
	return p.Status == PostStatusPlanned
}

// Clone returns a copy that shares no slices with p.
func (p PostPlan) Clone() PostPlan {
	cp := p
	if p.Hashtags != nil {
		cp.Hashtags = append([]string(nil), p.Hashtags...)
	}
	return cp
}
