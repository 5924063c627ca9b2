package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/2beens/healthme/internal/auth"
	"github.com/2beens/healthme/internal/chart"
	"github.com/2beens/healthme/internal/health"
	"github.com/2beens/healthme/internal/middleware"
	"github.com/2beens/healthme/internal/telemetry/metrics"
	"github.com/2beens/healthme/internal/telemetry/tracing"
	"github.com/2beens/healthme/pkg"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=web_test

type healthService interface {
	Register(ctx context.Context, params health.RegisterParams) (*health.User, error)
	Authenticate(ctx context.Context, username, password string) (*health.User, error)
	User(ctx context.Context, userID int) (*health.User, error)
	Dashboard(ctx context.Context, userID int) (*health.DashboardView, error)
	ChartImage(ctx context.Context, userID int) ([]byte, error)
	AddData(ctx context.Context, userID int, steps, calorieIntake int, weight float64) error
	AddActivity(ctx context.Context, userID int, steps, calorieIntake int) error
	AddWeight(ctx context.Context, userID int, weight float64, date time.Time) (*health.User, error)
	HealthData(ctx context.Context, userID int) (*health.HealthDataView, error)
	EditProfile(ctx context.Context, userID int, update health.ProfileUpdate) (*health.User, error)
	SetHealthGoal(ctx context.Context, userID int, name, rawValue string) (health.HealthGoal, error)
	Community(ctx context.Context, userID int) (*health.CommunityView, error)
	JoinCommunity(ctx context.Context, userID int, params health.JoinCommunityParams) (*health.Community, error)
}

type sessionService interface {
	Login(ctx context.Context, userID int, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
	MarkNewUser(ctx context.Context, token string) error
	TakeNewUserFlag(ctx context.Context, token string) (bool, error)
	TTL() time.Duration
}

type dashboardPage struct {
	View     *health.DashboardView
	ChartURL string
	Greeting string
}

type Handler struct {
	service       healthService
	sessions      sessionService
	pages         *Pages
	charts        *chartCache
	chartsDir     string
	validate      *validator.Validate
	secureCookies bool
}

type NewHandlerParams struct {
	Service          healthService
	Sessions         sessionService
	ChartsDir        string
	ChartCacheSizeMB int
	SecureCookies    bool
}

func NewHandler(params NewHandlerParams) (*Handler, error) {
	pages, err := NewPages()
	if err != nil {
		return nil, err
	}

	return &Handler{
		service:       params.Service,
		sessions:      params.Sessions,
		pages:         pages,
		charts:        newChartCache(params.ChartCacheSizeMB),
		chartsDir:     params.ChartsDir,
		validate:      newValidator(),
		secureCookies: params.SecureCookies,
	}, nil
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	loginAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleLanding).Methods("GET").Name("landing")

	mainRouter.HandleFunc("/register-form", handler.handleRegisterForm).Methods("GET").Name("register-form")
	mainRouter.HandleFunc("/register", handler.handleRegister).Methods("POST").Name("register")
	mainRouter.HandleFunc(middleware.LoginFormPath, handler.handleLoginForm).Methods("GET").Name("login-form")
	// rate limit the login endpoint to slow down password guessing
	mainRouter.Handle(
		"/login",
		middleware.RateLimit(rateLimiter, metricsManager, "login", loginAllowedPerMin)(http.HandlerFunc(handler.handleLogin)),
	).Methods("POST").Name("login")
	mainRouter.HandleFunc("/logout", handler.handleLogout).Methods("GET").Name("logout")

	mainRouter.HandleFunc("/dashboard", handler.handleDashboard).Methods("GET", "POST").Name("dashboard")
	mainRouter.HandleFunc("/dashboard/chart", handler.handleChart).Methods("GET").Name("dashboard-chart")
	mainRouter.HandleFunc("/home", handler.handleHome).Methods("GET").Name("home")
	mainRouter.HandleFunc("/profile", handler.handleProfile).Methods("GET").Name("profile")
	mainRouter.HandleFunc("/health-data", handler.handleHealthData).Methods("GET").Name("health-data")
	mainRouter.HandleFunc("/health-goals", handler.handleHealthGoals).Methods("GET").Name("health-goals")
	mainRouter.HandleFunc("/community", handler.handleCommunity).Methods("GET").Name("community")

	mainRouter.HandleFunc("/add-data", handler.handleAddData).Methods("POST").Name("add-data")
	mainRouter.HandleFunc("/add-activity", handler.handleAddActivity).Methods("POST").Name("add-activity")
	mainRouter.HandleFunc("/add-weight", handler.handleAddWeight).Methods("POST").Name("add-weight")
	mainRouter.HandleFunc("/add-health-data", handler.handleAddHealthData).Methods("POST").Name("add-health-data")
	mainRouter.HandleFunc("/edit-profile", handler.handleEditProfile).Methods("POST").Name("edit-profile")
	mainRouter.HandleFunc("/set-health-goal", handler.handleSetHealthGoal).Methods("POST").Name("set-health-goal")
	mainRouter.HandleFunc("/community/join", handler.handleJoinCommunity).Methods("POST").Name("community-join")

	mainRouter.HandleFunc("/static/charts/{file}", handler.handleStaticChart).Methods("GET").Name("static-chart")
}

func (handler *Handler) render(w http.ResponseWriter, r *http.Request, statusCode int, name string, data pageData) {
	_, data.LoggedIn = auth.SessionFromContext(r.Context())
	handler.pages.Render(w, statusCode, name, data)
}

func (handler *Handler) renderError(w http.ResponseWriter, r *http.Request, statusCode int, message string, details ...string) {
	handler.render(w, r, statusCode, "error.html", pageData{
		Title:    http.StatusText(statusCode),
		Message:  message,
		Messages: details,
	})
}

// handleFormError answers a rejected form with 400, listing what was wrong with it.
func (handler *Handler) handleFormError(w http.ResponseWriter, r *http.Request, err error) {
	var formErr *formError
	if errors.As(err, &formErr) {
		handler.renderError(w, r, http.StatusBadRequest, "The submitted form is not valid.", formErr.Messages...)
		return
	}
	log.Debugf("%s %s, read form: %s", r.Method, r.URL.Path, err)
	handler.renderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
}

// handleServiceError maps errors of the health service to pages and status codes.
func (handler *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, health.ErrInvalidInput):
		handler.renderError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, health.ErrCommunityNotFound):
		handler.renderError(w, r, http.StatusNotFound, "This community does not exist.")
	case errors.Is(err, health.ErrUserNotFound):
		// session of a user that no longer exists
		auth.ClearSessionCookie(w, handler.secureCookies)
		http.Redirect(w, r, middleware.LoginFormPath, http.StatusSeeOther)
	default:
		log.Errorf("%s: %s", op, err)
		handler.renderError(w, r, http.StatusInternalServerError, "Something went wrong, please try again later.")
	}
}

// sessionUserID returns the id of the logged in user, redirecting to the login form otherwise.
func (handler *Handler) sessionUserID(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.LoginFormPath, http.StatusSeeOther)
		return nil, false
	}
	return session, true
}

func (handler *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, http.StatusOK, "landing.html", pageData{Title: "Welcome"})
}

func (handler *Handler) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, http.StatusOK, "register.html", pageData{Title: "Register"})
}

func (handler *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	handler.render(w, r, http.StatusOK, "login.html", pageData{Title: "Log in"})
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.register")
	defer span.End()

	form, err := readRegisterForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	user, err := handler.service.Register(ctx, health.RegisterParams{
		Username: form.Username,
		Password: form.Password,
		Height:   form.Height,
		Weight:   form.Weight,
		Age:      form.Age,
		Gender:   form.Gender,
		Goal:     form.Goal,
	})
	if err != nil {
		if errors.Is(err, health.ErrUsernameTaken) {
			handler.render(w, r, http.StatusConflict, "registration_conflict.html", pageData{
				Title: "Username taken",
				Data:  form.Username,
			})
			return
		}
		handler.handleServiceError(w, r, "register", err)
		return
	}
	span.SetAttributes(attribute.Int("user.id", user.ID))

	token, err := handler.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("register, open session for user %d: %s", user.ID, err)
		// the account exists, the user can still log in
		http.Redirect(w, r, middleware.LoginFormPath, http.StatusSeeOther)
		return
	}
	if err := handler.sessions.MarkNewUser(ctx, token); err != nil {
		log.Errorf("register, mark new user %d: %s", user.ID, err)
	}

	auth.SetSessionCookie(w, token, handler.sessions.TTL(), handler.secureCookies)
	log.Printf("new user registered: %s [%d]", user.Username, user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.login")
	defer span.End()

	form, err := readLoginForm(r, handler.validate)
	if err != nil {
		handler.render(w, r, http.StatusUnauthorized, "login.html", pageData{
			Title:   "Log in",
			Message: "Invalid username or password",
		})
		return
	}

	user, err := handler.service.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, health.ErrInvalidCredentials) {
			log.Tracef("failed login attempt for [%s]", form.Username)
			handler.render(w, r, http.StatusUnauthorized, "login.html", pageData{
				Title:   "Log in",
				Message: "Invalid username or password",
			})
			return
		}
		handler.handleServiceError(w, r, "login", err)
		return
	}

	token, err := handler.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		handler.handleServiceError(w, r, "login, open session", err)
		return
	}

	auth.SetSessionCookie(w, token, handler.sessions.TTL(), handler.secureCookies)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logout")
	defer span.End()

	if token := auth.TokenFromRequest(r); token != "" {
		if err := handler.sessions.Logout(ctx, token); err != nil {
			log.Errorf("logout: %s", err)
		}
	}
	if session, ok := auth.SessionFromContext(ctx); ok {
		handler.charts.invalidate(session.UserID)
	}

	auth.ClearSessionCookie(w, handler.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// dashboardView refreshes the chart and cached metrics of the user, and caches the new chart.
func (handler *Handler) dashboardView(ctx context.Context, userID int) (*dashboardPage, error) {
	view, err := handler.service.Dashboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	handler.charts.set(userID, view.Chart.PNG)

	return &dashboardPage{
		View:     view,
		Greeting: fmt.Sprintf("Welcome back, %s!", view.User.Username),
		// the chart changes on every render, so the url does too
		ChartURL: fmt.Sprintf("/dashboard/chart?v=%d", time.Now().UnixNano()),
	}, nil
}

func (handler *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	// first visit after registration: redirect once, the flag is gone after this take
	isNewUser, err := handler.sessions.TakeNewUserFlag(ctx, session.Token)
	if err != nil {
		log.Errorf("dashboard, take new user flag: %s", err)
	}
	if isNewUser {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	page, err := handler.dashboardView(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "dashboard", err)
		return
	}

	handler.render(w, r, http.StatusOK, "dashboard.html", pageData{
		Title: "Dashboard",
		Data:  page,
	})
}

func (handler *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.home")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	page, err := handler.dashboardView(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "home", err)
		return
	}
	handler.render(w, r, http.StatusOK, "home.html", pageData{
		Title: "Home",
		Data:  page,
	})
}

func (handler *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.chart")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	png, found := handler.charts.get(session.UserID)
	span.SetAttributes(attribute.Bool("cache.hit", found))
	if !found {
		var err error
		png, err = handler.service.ChartImage(ctx, session.UserID)
		if err != nil {
			handler.handleServiceError(w, r, "chart image", err)
			return
		}
		if len(png) == 0 {
			http.Error(w, "chart not rendered yet", http.StatusNotFound)
			return
		}
		handler.charts.set(session.UserID, png)
	}

	w.Header().Set("Cache-Control", "private, no-cache")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.PNG, png)
}

// handleStaticChart serves the chart file, only to its owner.
func (handler *Handler) handleStaticChart(w http.ResponseWriter, r *http.Request) {
	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	file := mux.Vars(r)["file"]
	if file != chart.FileName(session.UserID) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache")
	http.ServeFile(w, r, filepath.Join(handler.chartsDir, file))
}

func (handler *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	user, err := handler.service.User(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "profile", err)
		return
	}

	handler.render(w, r, http.StatusOK, "profile.html", pageData{
		Title: "Profile",
		Data:  user,
	})
}

func (handler *Handler) handleHealthData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health_data")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	view, err := handler.service.HealthData(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "health data", err)
		return
	}

	handler.render(w, r, http.StatusOK, "health_data.html", pageData{
		Title: "Health data",
		Data:  view,
	})
}

func (handler *Handler) handleHealthGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health_goals")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	user, err := handler.service.User(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "health goals", err)
		return
	}

	handler.render(w, r, http.StatusOK, "health_goals.html", pageData{
		Title: "Health goals",
		Data:  user,
	})
}

func (handler *Handler) handleCommunity(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.community")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	view, err := handler.service.Community(ctx, session.UserID)
	if err != nil {
		handler.handleServiceError(w, r, "community", err)
		return
	}

	if view.Community == nil {
		handler.render(w, r, http.StatusOK, "community_join.html", pageData{
			Title: "Join a community",
			Data:  view,
		})
		return
	}

	handler.render(w, r, http.StatusOK, "community.html", pageData{
		Title: view.Community.Name,
		Data:  view,
	})
}

func (handler *Handler) handleAddData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.add_data")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readDataForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	if err := handler.service.AddData(ctx, session.UserID, form.Steps, form.CalorieIntake, form.Weight); err != nil {
		handler.handleServiceError(w, r, "add data", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (handler *Handler) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	handler.addActivity(w, r, "/dashboard")
}

func (handler *Handler) handleAddHealthData(w http.ResponseWriter, r *http.Request) {
	handler.addActivity(w, r, "/health-data")
}

func (handler *Handler) addActivity(w http.ResponseWriter, r *http.Request, redirectTo string) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.add_activity")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readActivityForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	if err := handler.service.AddActivity(ctx, session.UserID, form.Steps, form.CalorieIntake); err != nil {
		handler.handleServiceError(w, r, "add activity", err)
		return
	}

	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

func (handler *Handler) handleAddWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.add_weight")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readWeightForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	if _, err := handler.service.AddWeight(ctx, session.UserID, form.Weight, form.Date); err != nil {
		handler.handleServiceError(w, r, "add weight", err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (handler *Handler) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.edit_profile")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readProfileForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	if _, err := handler.service.EditProfile(ctx, session.UserID, health.ProfileUpdate{
		Age:    form.Age,
		Gender: form.Gender,
		Height: form.Height,
		Weight: form.Weight,
	}); err != nil {
		handler.handleServiceError(w, r, "edit profile", err)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (handler *Handler) handleSetHealthGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.set_health_goal")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readGoalForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	goal, err := handler.service.SetHealthGoal(ctx, session.UserID, form.Name, form.Value)
	if err != nil {
		handler.handleServiceError(w, r, "set health goal", err)
		return
	}
	log.Tracef("user %d set health goal: %s", session.UserID, goal)

	http.Redirect(w, r, "/health-goals", http.StatusSeeOther)
}

func (handler *Handler) handleJoinCommunity(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.join_community")
	defer span.End()

	session, ok := handler.sessionUserID(w, r)
	if !ok {
		return
	}

	form, err := readJoinCommunityForm(r, handler.validate)
	if err != nil {
		handler.handleFormError(w, r, err)
		return
	}

	if _, err := handler.service.JoinCommunity(ctx, session.UserID, health.JoinCommunityParams{
		CommunityID:   form.CommunityID,
		CommunityName: form.CommunityName,
	}); err != nil {
		handler.handleServiceError(w, r, "join community", err)
		return
	}

	http.Redirect(w, r, "/community", http.StatusSeeOther)
}
