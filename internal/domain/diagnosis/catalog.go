package diagnosis

import "github.com/okian/fitscore/internal/domain/types"

// Sport is an entry of the fixed aptitude catalog.
type Sport struct {
	Name     string         `json:"name"`
	Icon     string         `json:"icon"`
	Requires []types.Metric `json:"required_metrics"`
}

// Sports is the fixed catalog ranked by RankSports. Order matters: it breaks
// aptitude ties.
var Sports = []Sport{
	{Name: "Soccer", Icon: "soccer", Requires: []types.Metric{types.Dash, types.Sidestep, types.Jump}},
	{Name: "Baseball", Icon: "baseball", Requires: []types.Metric{types.Throw, types.Grip, types.Dash}},
	{Name: "Basketball", Icon: "basketball", Requires: []types.Metric{types.Jump, types.Sidestep, types.DoubleJump}},
	{Name: "Swimming", Icon: "swimming", Requires: []types.Metric{types.Squat, types.Jump}},
	{Name: "Sprinting", Icon: "sprint", Requires: []types.Metric{types.Dash, types.Jump}},
	{Name: "Distance running", Icon: "running", Requires: []types.Metric{types.Squat, types.DoubleJump}},
	{Name: "Gymnastics", Icon: "gymnastics", Requires: []types.Metric{types.DoubleJump, types.Grip, types.Squat}},
	{Name: "Tennis", Icon: "tennis", Requires: []types.Metric{types.Sidestep, types.Throw, types.Grip}},
	{Name: "Volleyball", Icon: "volleyball", Requires: []types.Metric{types.Jump, types.Throw}},
	{Name: "Judo", Icon: "judo", Requires: []types.Metric{types.Grip, types.Squat}},
	{Name: "Badminton", Icon: "badminton", Requires: []types.Metric{types.Sidestep, types.DoubleJump}},
	{Name: "Table tennis", Icon: "table-tennis", Requires: []types.Metric{types.Sidestep, types.Dash}},
	{Name: "Dance", Icon: "dance", Requires: []types.Metric{types.DoubleJump, types.Sidestep}},
	{Name: "Rugby", Icon: "rugby", Requires: []types.Metric{types.Dash, types.Grip, types.Squat}},
	{Name: "Handball", Icon: "handball", Requires: []types.Metric{types.Throw, types.Jump, types.Sidestep}},
	{Name: "Climbing", Icon: "climbing", Requires: []types.Metric{types.Grip, types.Jump}},
}

// Archetype describes the shape of an ability profile.
type Archetype struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Profile-wide archetypes.
var (
	Elite = Archetype{
		Key:         "elite",
		Name:        "All-around elite",
		Description: "High scores in every ability. Ready for demanding multi-sport training.",
	}
	Balanced = Archetype{
		Key:         "balanced",
		Name:        "Balanced athlete",
		Description: "Even, above-average abilities with no clear weak spot.",
	}
	Growing = Archetype{
		Key:         "growing",
		Name:        "Growing athlete",
		Description: "Around the age average and developing steadily across abilities.",
	}
	Potential = Archetype{
		Key:         "potential",
		Name:        "Potential athlete",
		Description: "Plenty of room to grow; regular play will lift every ability.",
	}
)

// Specialists maps a standout metric to its specialist archetype.
var Specialists = map[types.Metric]Archetype{
	types.Grip: {
		Key: "power", Name: "Power athlete",
		Description: "A strong grip and upper body stand out.",
	},
	types.Jump: {
		Key: "spring", Name: "Spring athlete",
		Description: "Explosive legs and a powerful take-off.",
	},
	types.Dash: {
		Key: "speed", Name: "Speed athlete",
		Description: "Quick off the mark with a fast top speed.",
	},
	types.DoubleJump: {
		Key: "rhythm", Name: "Rhythm athlete",
		Description: "Excellent timing and coordination in repeated movement.",
	},
	types.Squat: {
		Key: "stamina", Name: "Stamina athlete",
		Description: "Keeps going when others tire; strong core endurance.",
	},
	types.Sidestep: {
		Key: "agility", Name: "Agility athlete",
		Description: "Fast changes of direction and nimble footwork.",
	},
	types.Throw: {
		Key: "thrower", Name: "Throwing athlete",
		Description: "Whole-body coordination that sends the ball far.",
	},
}

// WeakClass is the remedial class for a subject's weakest ability.
type WeakClass struct {
	Ability types.Metric `json:"ability"`
	Key     string       `json:"key"`
	Name    string       `json:"name"`
}

// WeakClasses maps each metric to its remedial class.
var WeakClasses = map[types.Metric]WeakClass{
	types.Grip:       {Ability: types.Grip, Key: "grip", Name: "Grip & hang class"},
	types.Jump:       {Ability: types.Jump, Key: "jump", Name: "Jumping class"},
	types.Dash:       {Ability: types.Dash, Key: "sprint", Name: "Sprint start class"},
	types.DoubleJump: {Ability: types.DoubleJump, Key: "rhythm", Name: "Rhythm jump class"},
	types.Squat:      {Ability: types.Squat, Key: "core", Name: "Core stamina class"},
	types.Sidestep:   {Ability: types.Sidestep, Key: "agility", Name: "Agility ladder class"},
	types.Throw:      {Ability: types.Throw, Key: "throw", Name: "Throwing class"},
}

// Units per metric, used for goals.
var units = [types.NumMetrics]string{
	types.Grip:       "kg",
	types.Jump:       "cm",
	types.Dash:       "s",
	types.DoubleJump: "reps",
	types.Squat:      "reps",
	types.Sidestep:   "reps",
	types.Throw:      "m",
}
