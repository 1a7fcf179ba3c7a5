package services

import (
	"time"

	"quillpress/internal/models"
)

// now is swapped in tests
var now = func() time.Time {
	return time.Now().UTC()
}

// ApplyCreate sets the initial lifecycle fields of a new post. Creation is gated
// to authors, so every new post starts pending.
func ApplyCreate(p *models.Post, schedule *time.Time, at time.Time) {
	p.Status = models.PostStatusPending
	p.ScheduledPublish = schedule
	if schedule == nil {
		p.PublishedAt = &at
	} else {
		p.PublishedAt = nil
	}
}

// ApplyEdit updates the schedule of an edited post. Status is never touched.
// Clearing the schedule stamps PublishedAt even when the post is not published.
func ApplyEdit(p *models.Post, schedule *time.Time, at time.Time) {
	p.ScheduledPublish = schedule
	if p.ScheduledPublish == nil {
		p.PublishedAt = &at
	}
}

// Approve publishes p from any prior status
func Approve(p *models.Post, at time.Time) {
	p.Status = models.PostStatusPublished
	p.PublishedAt = &at
}

// Reject marks p rejected from any prior status
func Reject(p *models.Post) {
	p.Status = models.PostStatusRejected
}
