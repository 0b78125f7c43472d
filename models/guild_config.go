package models

import (
	"fmt"
	"sort"
	"time"
)

// Schedule is a recurring daily trigger at hour:minute in the configured timezone
type Schedule struct {
	Hour   int `db:"hour"`
	Minute int `db:"minute"`
}

// Validate checks that the schedule falls within a single day
func (s Schedule) Validate() error {
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("%w: hour must be between 0 and 23, got %d", ErrInvalidSchedule, s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("%w: minute must be between 0 and 59, got %d", ErrInvalidSchedule, s.Minute)
	}
	return nil
}

// String formats the schedule as HH:MM
func (s Schedule) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// CronSpec returns the five-field cron expression firing daily at this time
func (s Schedule) CronSpec() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}

// SortSchedules orders schedules by time of day
func SortSchedules(schedules []Schedule) {
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].Hour != schedules[j].Hour {
			return schedules[i].Hour < schedules[j].Hour
		}
		return schedules[i].Minute < schedules[j].Minute
	})
}

// TrackedUser maps a LeetCode username to an optional Discord member
type TrackedUser struct {
	Username string  `db:"username"`
	MemberID *string `db:"member_id"`
}

// EffectiveMemberID returns the Discord member ID, or the username when unmapped
func (u TrackedUser) EffectiveMemberID() string {
	if u.MemberID != nil && *u.MemberID != "" {
		return *u.MemberID
	}
	return u.Username
}

// Mention returns a Discord mention for mapped members and the raw username otherwise
func (u TrackedUser) Mention() string {
	if u.MemberID != nil && *u.MemberID != "" {
		return fmt.Sprintf("<@%s>", *u.MemberID)
	}
	return u.Username
}

// GuildConfig holds the tracking configuration of a single guild
type GuildConfig struct {
	GuildID      string        `db:"guild_id"`
	ChannelID    *string       `db:"channel_id"`
	TrackedUsers []TrackedUser `db:"-"`
	Schedules    []Schedule    `db:"-"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// HasChannel returns true if an announcement channel is configured
func (c *GuildConfig) HasChannel() bool {
	return c.ChannelID != nil && *c.ChannelID != ""
}

// GetChannelID returns the announcement channel or an empty string
func (c *GuildConfig) GetChannelID() string {
	if c.ChannelID == nil {
		return ""
	}
	return *c.ChannelID
}

// FindUser returns the tracked user with the given username
func (c *GuildConfig) FindUser(username string) (TrackedUser, bool) {
	for _, u := range c.TrackedUsers {
		if u.Username == username {
			return u, true
		}
	}
	return TrackedUser{}, false
}
