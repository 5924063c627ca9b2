package health

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/healthme/internal/chart"
	"github.com/2beens/healthme/internal/telemetry/metrics"
	"github.com/2beens/healthme/internal/telemetry/tracing"
	"github.com/2beens/healthme/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=health_test

type healthRepo interface {
	RegisterUser(ctx context.Context, user User, initialWeight float64) (*User, error)
	UserByID(ctx context.Context, id int) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, userID int, age int, gender string, height float64, newWeight *WeightEntry) error
	UpdateGoal(ctx context.Context, userID int, goal HealthGoal) error
	UpdateMetrics(ctx context.Context, userID int, weight, bmi *float64) error
	SetDashboardImage(ctx context.Context, userID int, image []byte) error
	SetCommunity(ctx context.Context, userID int, communityID int) error
	DashboardImage(ctx context.Context, userID int) ([]byte, error)
	AddActivity(ctx context.Context, activity Activity) (*Activity, error)
	AddActivityAndWeight(ctx context.Context, activity Activity, entry WeightEntry) error
	ListActivities(ctx context.Context, userID int) ([]Activity, error)
	AddWeight(ctx context.Context, entry WeightEntry) (*WeightEntry, error)
	ListWeights(ctx context.Context, userID int) ([]WeightEntry, error)
	AddCommunity(ctx context.Context, name string, createdAt time.Time) (*Community, error)
	CommunityByID(ctx context.Context, id int) (*Community, error)
	ListCommunities(ctx context.Context) ([]Community, error)
	CommunityMembers(ctx context.Context, communityID int) ([]string, error)
}

type chartRenderer interface {
	Render(in chart.Input) (*chart.Rendered, error)
}

type chartStore interface {
	Save(ctx context.Context, userID int, png []byte) ([]byte, error)
}

type RegisterParams struct {
	Username string
	Password string
	Height   float64
	Weight   float64
	Age      int
	Gender   string
	Goal     string
}

type ProfileUpdate struct {
	Age    int
	Gender string
	Height float64
	// Weight, when set, is logged as a new weight entry.
	Weight *float64
}

type JoinCommunityParams struct {
	CommunityID   int
	CommunityName string
}

type DashboardView struct {
	User        *User
	Activities  []Activity
	Series      Series
	BMICategory BMICategory
	Chart       *chart.Rendered
}

type HealthDataView struct {
	User          *User
	Activities    []Activity
	TotalSteps    int
	TotalCalories int
}

type CommunityView struct {
	User      *User
	Community *Community
	Members   []string
	// Available is only listed for users outside of any community.
	Available []Community
}

type Service struct {
	repo           healthRepo
	renderer       chartRenderer
	store          chartStore
	metricsManager *metrics.Manager
	// ability to inject the clock (for unit testing)
	Now func() time.Time
}

func NewService(
	repo healthRepo,
	renderer chartRenderer,
	store chartStore,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:           repo,
		renderer:       renderer,
		store:          store,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := s.repo.UsernameExists(ctx, params.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := pkg.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.RegisterUser(ctx, User{
		Username:     params.Username,
		PasswordHash: passwordHash,
		Height:       params.Height,
		Age:          params.Age,
		Gender:       params.Gender,
		Goal:         TextGoal(params.Goal),
		CreatedAt:    s.Now(),
	}, params.Weight)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	span.SetAttributes(attribute.Int("user.id", user.ID))

	if err := s.refreshMetrics(ctx, user); err != nil {
		return nil, err
	}

	s.metricsManager.CounterRegistrations.Inc()
	log.Debugf("user registered: %s [%d]", user.Username, user.ID)

	return user, nil
}

// Authenticate matches the username exactly and checks the password hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metricsManager.CounterLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		s.metricsManager.CounterLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	s.metricsManager.CounterLogins.WithLabelValues("success").Inc()
	return user, nil
}

func (s *Service) User(ctx context.Context, userID int) (*User, error) {
	return s.repo.UserByID(ctx, userID)
}

// Dashboard renders and persists the progress chart, refreshes the cached
// weight and BMI, and collects everything the dashboard page shows.
func (s *Service) Dashboard(ctx context.Context, userID int) (_ *DashboardView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	weights, err := s.repo.ListWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}

	series := BuildSeries(weights, user.Height)
	rendered, err := s.renderAndPersistChart(ctx, userID, RawInputSeries(weights), series)
	if err != nil {
		return nil, err
	}

	if err := s.applyMetrics(ctx, user, weights); err != nil {
		return nil, err
	}

	view := &DashboardView{
		User:       user,
		Activities: activities,
		Series:     series,
		Chart:      rendered,
	}
	if user.BMI != nil {
		view.BMICategory = CategoryOf(*user.BMI)
	}

	return view, nil
}

func (s *Service) renderAndPersistChart(ctx context.Context, userID int, raw, series Series) (*chart.Rendered, error) {
	begin := s.Now()
	rendered, err := s.renderer.Render(chartInput(raw, series))
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	s.metricsManager.HistChartRenderDuration.Observe(time.Since(begin).Seconds())

	stored, err := s.store.Save(ctx, userID, rendered.PNG)
	if err != nil {
		return nil, fmt.Errorf("save chart: %w", err)
	}

	if err := s.repo.SetDashboardImage(ctx, userID, stored); err != nil {
		return nil, fmt.Errorf("persist chart: %w", err)
	}

	rendered.PNG = stored
	return rendered, nil
}

func chartInput(raw, series Series) chart.Input {
	toPoints := func(dates []time.Time, values []float64) []chart.Point {
		if len(values) == 0 {
			return nil
		}
		points := make([]chart.Point, len(values))
		for i := range values {
			points[i] = chart.Point{Date: dates[i], Value: values[i]}
		}
		return points
	}

	return chart.Input{
		RawWeights: toPoints(raw.Dates, raw.Weights),
		Weights:    toPoints(series.Dates, series.Weights),
		BMIs:       toPoints(series.Dates, series.BMIs),
	}
}

func (s *Service) ChartImage(ctx context.Context, userID int) ([]byte, error) {
	return s.repo.DashboardImage(ctx, userID)
}

// AddData logs an activity entry and a weight measurement at once.
// Both are stored, or neither is.
func (s *Service) AddData(ctx context.Context, userID int, steps, calorieIntake int, weight float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.add_data")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := validateActivity(steps, calorieIntake); err != nil {
		return err
	}
	if err := validateWeight(weight); err != nil {
		return err
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return err
	}

	now := s.Now()
	if err := s.repo.AddActivityAndWeight(ctx,
		Activity{
			UserID:        userID,
			Date:          now,
			Steps:         steps,
			CalorieIntake: calorieIntake,
		},
		WeightEntry{
			UserID: userID,
			Date:   now,
			Weight: weight,
		},
	); err != nil {
		return fmt.Errorf("add activity and weight: %w", err)
	}
	s.metricsManager.CounterActivityEntries.Inc()
	s.metricsManager.CounterWeightEntries.Inc()

	log.Debugf("activity and weight added for user %s: steps %d, kcal %d, weight %.1f", user.Username, steps, calorieIntake, weight)
	return s.refreshMetrics(ctx, user)
}

func (s *Service) AddActivity(ctx context.Context, userID int, steps, calorieIntake int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.add_activity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := validateActivity(steps, calorieIntake); err != nil {
		return err
	}

	if _, err := s.repo.AddActivity(ctx, Activity{
		UserID:        userID,
		Date:          s.Now(),
		Steps:         steps,
		CalorieIntake: calorieIntake,
	}); err != nil {
		return fmt.Errorf("add activity: %w", err)
	}

	s.metricsManager.CounterActivityEntries.Inc()
	return nil
}

func validateActivity(steps, calorieIntake int) error {
	if steps < 0 || calorieIntake < 0 {
		return fmt.Errorf("%w: steps and calorie intake must not be negative", ErrInvalidInput)
	}
	return nil
}

// AddWeight logs a weight measurement. A zero date means now.
func (s *Service) AddWeight(ctx context.Context, userID int, weight float64, date time.Time) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.add_weight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := validateWeight(weight); err != nil {
		return nil, err
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = s.Now()
	}
	if _, err := s.repo.AddWeight(ctx, WeightEntry{
		UserID: userID,
		Date:   date,
		Weight: weight,
	}); err != nil {
		return nil, fmt.Errorf("add weight: %w", err)
	}
	s.metricsManager.CounterWeightEntries.Inc()

	if err := s.refreshMetrics(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateWeight(weight float64) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: weight must be a positive number, got %f", ErrInvalidInput, weight)
	}
	return nil
}

func (s *Service) HealthData(ctx context.Context, userID int) (*HealthDataView, error) {
	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.ListActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	totalSteps, totalCalories := ActivityTotals(activities)
	return &HealthDataView{
		User:          user,
		Activities:    activities,
		TotalSteps:    totalSteps,
		TotalCalories: totalCalories,
	}, nil
}

func (s *Service) EditProfile(ctx context.Context, userID int, update ProfileUpdate) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.edit_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var newWeight *WeightEntry
	if update.Weight != nil {
		if err := validateWeight(*update.Weight); err != nil {
			return nil, err
		}
		newWeight = &WeightEntry{
			UserID: userID,
			Date:   s.Now(),
			Weight: *update.Weight,
		}
	}

	if err := s.repo.UpdateProfile(ctx, userID, update.Age, strings.TrimSpace(update.Gender), update.Height, newWeight); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if newWeight != nil {
		s.metricsManager.CounterWeightEntries.Inc()
	}

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// height may have changed, so the BMI cache is refreshed either way
	if err := s.refreshMetrics(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) SetHealthGoal(ctx context.Context, userID int, name, rawValue string) (_ HealthGoal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.set_goal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	goal, err := GoalFromForm(name, rawValue)
	if err != nil {
		return HealthGoal{}, err
	}

	if err := s.repo.UpdateGoal(ctx, userID, goal); err != nil {
		return HealthGoal{}, fmt.Errorf("update goal: %w", err)
	}

	return goal, nil
}

func (s *Service) Community(ctx context.Context, userID int) (_ *CommunityView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.community")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CommunityView{User: user}
	if user.CommunityID == nil {
		view.Available, err = s.repo.ListCommunities(ctx)
		if err != nil {
			return nil, fmt.Errorf("list communities: %w", err)
		}
		return view, nil
	}

	view.Community, err = s.repo.CommunityByID(ctx, *user.CommunityID)
	if err != nil {
		return nil, err
	}
	view.Members, err = s.repo.CommunityMembers(ctx, view.Community.ID)
	if err != nil {
		return nil, fmt.Errorf("list community members: %w", err)
	}

	return view, nil
}

// JoinCommunity joins an existing community by id, or finds (or creates) one by name.
func (s *Service) JoinCommunity(ctx context.Context, userID int, params JoinCommunityParams) (_ *Community, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.health.join_community")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var community *Community
	name := strings.TrimSpace(params.CommunityName)
	switch {
	case params.CommunityID > 0:
		community, err = s.repo.CommunityByID(ctx, params.CommunityID)
	case name != "":
		community, err = s.repo.AddCommunity(ctx, name, s.Now())
	default:
		return nil, ErrCommunityNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCommunity(ctx, userID, community.ID); err != nil {
		return nil, fmt.Errorf("set community: %w", err)
	}

	return community, nil
}

func (s *Service) refreshMetrics(ctx context.Context, user *User) error {
	weights, err := s.repo.ListWeights(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list weights: %w", err)
	}
	return s.applyMetrics(ctx, user, weights)
}

// applyMetrics recomputes the cached weight and BMI from the weight log, and
// stores them on the user record.
func (s *Service) applyMetrics(ctx context.Context, user *User, weights []WeightEntry) error {
	var weight, bmi *float64
	if latest := LatestWeight(weights); latest != nil {
		w := latest.Weight
		weight = &w
		if value, err := BMI(latest.Weight, user.Height); err == nil {
			bmi = &value
		}
	}

	if err := s.repo.UpdateMetrics(ctx, user.ID, weight, bmi); err != nil {
		return fmt.Errorf("update metrics: %w", err)
	}

	user.Weight = weight
	user.BMI = bmi
	return nil
}
