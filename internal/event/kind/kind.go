// Package kind defines the closed catalog of event kinds that flow through
// the bus, grouped into categories for authoring.
//
// A category is purely organizational: dispatch keys on the kind alone.
// Adding a kind means appending a constant, registering its name and
// category in the tables below, and nothing else.
package kind

import (
	"strings"
	"unicode"
)

// Kind identifies one event in the catalog.
type Kind int

// Collision kinds.
const (
	CollisionEnter Kind = iota
	CollisionExit
	CollisionStay
	TriggerEnter
	TriggerExit
	TriggerStay

	// Visibility
	VisibilityEnterScreen
	VisibilityExitScreen
	VisibilityEnterScreenPersist
	VisibilityExitScreenPersist

	// Mouse
	MouseEnterThisObject
	MouseExitThisObject
	MouseOverThisObject
	MouseClickThisObject
	MouseReleaseThisObject
	MouseReleaseAnywhere

	// Input
	ButtonInput
	KeyboardInput
	MouseInput
	GamepadInput
	VibrationStart
	VibrationStop

	// Camera
	TrackingCameraObjectAdd
	TrackingCameraObjectRemove

	// Character
	CharacterJump
	CharacterLand
	AllyCollision
	EnemyCollision
	HealthModified
	Damaged
	Healed
	Death
	OutOfLives

	// AI
	PathFollowerReachNode
	PathFollowerReachFinalNode
	PathFollowerLostEnemy
	PathFollowerFindEnemy
	LineOfSightEstablished
	LineOfSightMaintained
	LineOfSightLost

	// Gameplay
	Attached
	Detached
	GameObjectDestroy
	GradientAnimationFinished
	ObjectSpawned
	TimerCompleted
	DisplayUpdate
	CounterModify
	CounterIncrease
	CounterDecrease
	CounterThreshold
	TypingTextUpdate
	TypingTextComplete
	TransformAnimatorKeyframeFinished
	TransformAnimatorSequenceFinished
	AnimationCycleFinished

	// Pause
	GamePaused
	GameUnpaused

	// OptionManager
	AudioLevelsAdjusted
	DifficultyLevelAdjusted

	// Count is the number of kinds in the catalog. It is not a kind.
	Count
)

var kindNames = [Count]string{
	CollisionEnter: "CollisionEnter",
	CollisionExit:  "CollisionExit",
	CollisionStay:  "CollisionStay",
	TriggerEnter:   "TriggerEnter",
	TriggerExit:    "TriggerExit",
	TriggerStay:    "TriggerStay",

	VisibilityEnterScreen:        "VisibilityEnterScreen",
	VisibilityExitScreen:         "VisibilityExitScreen",
	VisibilityEnterScreenPersist: "VisibilityEnterScreenPersist",
	VisibilityExitScreenPersist:  "VisibilityExitScreenPersist",

	MouseEnterThisObject:   "MouseEnterThisObject",
	MouseExitThisObject:    "MouseExitThisObject",
	MouseOverThisObject:    "MouseOverThisObject",
	MouseClickThisObject:   "MouseClickThisObject",
	MouseReleaseThisObject: "MouseReleaseThisObject",
	MouseReleaseAnywhere:   "MouseReleaseAnywhere",

	ButtonInput:    "ButtonInput",
	KeyboardInput:  "KeyboardInput",
	MouseInput:     "MouseInput",
	GamepadInput:   "GamepadInput",
	VibrationStart: "VibrationStart",
	VibrationStop:  "VibrationStop",

	TrackingCameraObjectAdd:    "TrackingCameraObjectAdd",
	TrackingCameraObjectRemove: "TrackingCameraObjectRemove",

	CharacterJump:  "CharacterJump",
	CharacterLand:  "CharacterLand",
	AllyCollision:  "AllyCollision",
	EnemyCollision: "EnemyCollision",
	HealthModified: "HealthModified",
	Damaged:        "Damaged",
	Healed:         "Healed",
	Death:          "Death",
	OutOfLives:     "OutOfLives",

	PathFollowerReachNode:      "PathFollowerReachNode",
	PathFollowerReachFinalNode: "PathFollowerReachFinalNode",
	PathFollowerLostEnemy:      "PathFollowerLostEnemy",
	PathFollowerFindEnemy:      "PathFollowerFindEnemy",
	LineOfSightEstablished:     "LineOfSightEstablished",
	LineOfSightMaintained:      "LineOfSightMaintained",
	LineOfSightLost:            "LineOfSightLost",

	Attached:                          "Attached",
	Detached:                          "Detached",
	GameObjectDestroy:                 "GameObjectDestroy",
	GradientAnimationFinished:         "GradientAnimationFinished",
	ObjectSpawned:                     "ObjectSpawned",
	TimerCompleted:                    "TimerCompleted",
	DisplayUpdate:                     "DisplayUpdate",
	CounterModify:                     "CounterModify",
	CounterIncrease:                   "CounterIncrease",
	CounterDecrease:                   "CounterDecrease",
	CounterThreshold:                  "CounterThreshold",
	TypingTextUpdate:                  "TypingTextUpdate",
	TypingTextComplete:                "TypingTextComplete",
	TransformAnimatorKeyframeFinished: "TransformAnimatorKeyframeFinished",
	TransformAnimatorSequenceFinished: "TransformAnimatorSequenceFinished",
	AnimationCycleFinished:            "AnimationCycleFinished",

	GamePaused:   "GamePaused",
	GameUnpaused: "GameUnpaused",

	AudioLevelsAdjusted:     "AudioLevelsAdjusted",
	DifficultyLevelAdjusted: "DifficultyLevelAdjusted",
}

// byName maps the normalized form of every kind name back to its kind.
var byName = func() map[string]Kind {
	m := make(map[string]Kind, Count)
	for k := Kind(0); k < Count; k++ {
		m[normalize(kindNames[k])] = k
	}
	return m
}()

// Valid reports whether k is a member of the catalog.
func (k Kind) Valid() bool {
	return k >= 0 && k < Count
}

// String returns the catalog name of the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return kindNames[k]
}

// Category returns the authoring group the kind belongs to.
func (k Kind) Category() Category {
	if !k.Valid() {
		return CategoryUnknown
	}
	return kindCategory[k]
}

// Reserved reports whether the kind belongs to a group that ordinary
// gameplay logic should not be wired to (pause and option managers).
func (k Kind) Reserved() bool {
	c := k.Category()
	return c == CategoryPause || c == CategoryOptionManager
}

// All returns every kind in catalog order.
func All() []Kind {
	out := make([]Kind, Count)
	for k := Kind(0); k < Count; k++ {
		out[k] = k
	}
	return out
}

// Parse resolves a kind by name. Matching ignores case, underscores,
// dashes and spaces, so "CounterModify", "counter_modify" and
// "COUNTER-MODIFY" are equivalent.
func Parse(name string) (Kind, bool) {
	k, ok := byName[normalize(name)]
	return k, ok
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
