package health

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidGoal        = fmt.Errorf("%w: health goal", ErrInvalidInput)
)

type User struct {
	ID            int
	Username      string
	PasswordHash  string
	Height        float64
	Age           int
	Gender        string
	Goal          HealthGoal
	CreatedAt     time.Time
	Steps         int
	CalorieIntake int
	CommunityID   *int

	// Weight and BMI are caches of the latest weight log entry, see Service.refreshMetrics.
	Weight *float64
	BMI    *float64
}

type GoalKind string

const (
	GoalKindText    GoalKind = "text"
	GoalKindNumeric GoalKind = "numeric"

	METsGoalName   = "METs"
	metsMultiplier = 1000
)

// HealthGoal is either a free text goal or a numeric target value.
type HealthGoal struct {
	Kind  GoalKind
	Name  string
	Text  string
	Value float64
}

func TextGoal(text string) HealthGoal {
	return HealthGoal{
		Kind: GoalKindText,
		Text: strings.TrimSpace(text),
	}
}

// GoalFromForm builds the goal set from the health goals page.
// A goal named METs stores the value multiplied by 1000, any other name keeps
// the submitted value as text.
func GoalFromForm(name, rawValue string) (HealthGoal, error) {
	name = strings.TrimSpace(name)
	rawValue = strings.TrimSpace(rawValue)
	if name == "" {
		return HealthGoal{}, fmt.Errorf("%w: goal name empty", ErrInvalidGoal)
	}
	if rawValue == "" {
		return HealthGoal{}, fmt.Errorf("%w: goal value empty", ErrInvalidGoal)
	}

	if name != METsGoalName {
		return HealthGoal{
			Kind: GoalKindText,
			Name: name,
			Text: rawValue,
		}, nil
	}

	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return HealthGoal{}, fmt.Errorf("%w: METs value [%s] is not a number", ErrInvalidGoal, rawValue)
	}

	value *= metsMultiplier
	if math.IsInf(value, 0) {
		return HealthGoal{}, fmt.Errorf("%w: METs value [%s] out of range", ErrInvalidGoal, rawValue)
	}

	return HealthGoal{
		Kind:  GoalKindNumeric,
		Name:  name,
		Value: value,
	}, nil
}

func (g HealthGoal) IsNumeric() bool {
	return g.Kind == GoalKindNumeric
}

func (g HealthGoal) String() string {
	var value string
	if g.IsNumeric() {
		value = strconv.FormatFloat(g.Value, 'f', -1, 64)
	} else {
		value = g.Text
	}
	if g.Name == "" {
		return value
	}
	return fmt.Sprintf("%s: %s", g.Name, value)
}
