package domain

import (
	"slices"
	"time"
)

// InterruptionLevel is how aggressively a notification intrudes on the user.
type InterruptionLevel string

const (
	LevelDefault  InterruptionLevel = "default"
	LevelHigh     InterruptionLevel = "high"
	LevelCritical InterruptionLevel = "critical"
)

// ChannelDescriptor describes a bucket of notification behavior. Descriptors
// are registered once at startup and never mutated afterwards.
type ChannelDescriptor struct {
	ID                string            `json:"id" yaml:"id" dynamodbav:"channel_id" validate:"required,max=64"`
	Name              string            `json:"name" yaml:"name" dynamodbav:"name" validate:"required"`
	Description       string            `json:"description" yaml:"description" dynamodbav:"description"`
	InterruptionLevel InterruptionLevel `json:"interruption_level" yaml:"interruption_level" dynamodbav:"interruption_level" validate:"required,oneof=default high critical"`
	LightColor        string            `json:"light_color,omitempty" yaml:"light_color" dynamodbav:"light_color" validate:"omitempty,hexcolor"`
	VibrationPattern  []time.Duration   `json:"vibration_pattern,omitempty" yaml:"-" dynamodbav:"vibration_pattern" validate:"dive,gte=0"`
	EnableLights      bool              `json:"enable_lights" yaml:"enable_lights" dynamodbav:"enable_lights"`
	EnableVibration   bool              `json:"enable_vibration" yaml:"enable_vibration" dynamodbav:"enable_vibration"`
}

// Equal reports whether both descriptors carry exactly the same fields.
func (c ChannelDescriptor) Equal(o ChannelDescriptor) bool {
	return c.ID == o.ID &&
		c.Name == o.Name &&
		c.Description == o.Description &&
		c.InterruptionLevel == o.InterruptionLevel &&
		c.LightColor == o.LightColor &&
		c.EnableLights == o.EnableLights &&
		c.EnableVibration == o.EnableVibration &&
		slices.Equal(c.VibrationPattern, o.VibrationPattern)
}

// Clone returns a copy that shares no slice storage with c.
func (c ChannelDescriptor) Clone() ChannelDescriptor {
	c.VibrationPattern = slices.Clone(c.VibrationPattern)
	return c
}
