package health

import "time"

type Activity struct {
	ID            int
	UserID        int
	Date          time.Time
	Steps         int
	CalorieIntake int
}

type WeightEntry struct {
	ID     int
	UserID int
	Date   time.Time
	Weight float64
}

type Community struct {
	ID        int
	Name      string
	CreatedAt time.Time
}

// ActivityTotals sums up steps and calorie intake over the given entries.
func ActivityTotals(activities []Activity) (steps, calories int) {
	for _, a := range activities {
		steps += a.Steps
		calories += a.CalorieIntake
	}
	return steps, calories
}
