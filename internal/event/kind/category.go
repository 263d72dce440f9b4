package kind

// Category groups kinds for authoring. It has no effect on dispatch.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCollision
	CategoryVisibility
	CategoryMouse
	CategoryInput
	CategoryCamera
	CategoryCharacter
	CategoryAI
	CategoryGameplay
	CategoryPause
	CategoryOptionManager

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryUnknown:       "Unknown",
	CategoryCollision:     "Collision",
	CategoryVisibility:    "Visibility",
	CategoryMouse:         "Mouse",
	CategoryInput:         "Input",
	CategoryCamera:        "Camera",
	CategoryCharacter:     "Character",
	CategoryAI:            "AI",
	CategoryGameplay:      "Gameplay",
	CategoryPause:         "Pause",
	CategoryOptionManager: "OptionManager",
}

var kindCategory = [Count]Category{
	CollisionEnter: CategoryCollision,
	CollisionExit:  CategoryCollision,
	CollisionStay:  CategoryCollision,
	TriggerEnter:   CategoryCollision,
	TriggerExit:    CategoryCollision,
	TriggerStay:    CategoryCollision,

	VisibilityEnterScreen:        CategoryVisibility,
	VisibilityExitScreen:         CategoryVisibility,
	VisibilityEnterScreenPersist: CategoryVisibility,
	VisibilityExitScreenPersist:  CategoryVisibility,

	MouseEnterThisObject:   CategoryMouse,
	MouseExitThisObject:    CategoryMouse,
	MouseOverThisObject:    CategoryMouse,
	MouseClickThisObject:   CategoryMouse,
	MouseReleaseThisObject: CategoryMouse,
	MouseReleaseAnywhere:   CategoryMouse,

	ButtonInput:    CategoryInput,
	KeyboardInput:  CategoryInput,
	MouseInput:     CategoryInput,
	GamepadInput:   CategoryInput,
	VibrationStart: CategoryInput,
	VibrationStop:  CategoryInput,

	TrackingCameraObjectAdd:    CategoryCamera,
	TrackingCameraObjectRemove: CategoryCamera,

	CharacterJump:  CategoryCharacter,
	CharacterLand:  CategoryCharacter,
	AllyCollision:  CategoryCharacter,
	EnemyCollision: CategoryCharacter,
	HealthModified: CategoryCharacter,
	Damaged:        CategoryCharacter,
	Healed:         CategoryCharacter,
	Death:          CategoryCharacter,
	OutOfLives:     CategoryCharacter,

	PathFollowerReachNode:      CategoryAI,
	PathFollowerReachFinalNode: CategoryAI,
	PathFollowerLostEnemy:      CategoryAI,
	PathFollowerFindEnemy:      CategoryAI,
	LineOfSightEstablished:     CategoryAI,
	LineOfSightMaintained:      CategoryAI,
	LineOfSightLost:            CategoryAI,

	Attached:                          CategoryGameplay,
	Detached:                          CategoryGameplay,
	GameObjectDestroy:                 CategoryGameplay,
	GradientAnimationFinished:         CategoryGameplay,
	ObjectSpawned:                     CategoryGameplay,
	TimerCompleted:                    CategoryGameplay,
	DisplayUpdate:                     CategoryGameplay,
	CounterModify:                     CategoryGameplay,
	CounterIncrease:                   CategoryGameplay,
	CounterDecrease:                   CategoryGameplay,
	CounterThreshold:                  CategoryGameplay,
	TypingTextUpdate:                  CategoryGameplay,
	TypingTextComplete:                CategoryGameplay,
	TransformAnimatorKeyframeFinished: CategoryGameplay,
	TransformAnimatorSequenceFinished: CategoryGameplay,
	AnimationCycleFinished:            CategoryGameplay,

	GamePaused:   CategoryPause,
	GameUnpaused: CategoryPause,

	AudioLevelsAdjusted:     CategoryOptionManager,
	DifficultyLevelAdjusted: CategoryOptionManager,
}

// String returns the category name.
func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// Kinds returns the kinds in the category, in catalog order.
func (c Category) Kinds() []Kind {
	var out []Kind
	for k := Kind(0); k < Count; k++ {
		if kindCategory[k] == c {
			out = append(out, k)
		}
	}
	return out
}

// Categories returns every real category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, categoryCount-1)
	for c := CategoryCollision; c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory resolves a category by name using the same loose matching
// as Parse.
func ParseCategory(name string) (Category, bool) {
	n := normalize(name)
	for c := CategoryCollision; c < categoryCount; c++ {
		if normalize(categoryNames[c]) == n {
			return c, true
		}
	}
	return CategoryUnknown, false
}
