package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/healthme/internal/telemetry/tracing"
	"github.com/2beens/healthme/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrCommunityNotFound = errors.New("community not found")

const userColumns = `
	id, username, password_hash, height, weight, age, gender,
	goal_kind, goal_name, goal_text, goal_value,
	created_at, steps, calorie_intake, bmi, community_id`

// dbtx is satisfied by both the pool and an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var goalKind string
	if err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Height, &u.Weight, &u.Age, &u.Gender,
		&goalKind, &u.Goal.Name, &u.Goal.Text, &u.Goal.Value,
		&u.CreatedAt, &u.Steps, &u.CalorieIntake, &u.BMI, &u.CommunityID,
	); err != nil {
		return nil, err
	}
	u.Goal.Kind = GoalKind(goalKind)
	return &u, nil
}

// RegisterUser stores the new user together with the initial activity and weight log entries.
func (r *Repo) RegisterUser(ctx context.Context, user User, initialWeight float64) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.register_user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.Username == "" || user.PasswordHash == "" || user.CreatedAt.IsZero() {
		return nil, errors.New("username, password hash or created at empty")
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO app_user
					(username, password_hash, height, age, gender, goal_kind, goal_name, goal_text, goal_value, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id;`,
			user.Username, user.PasswordHash, user.Height, user.Age, user.Gender,
			string(user.Goal.Kind), user.Goal.Name, user.Goal.Text, user.Goal.Value, user.CreatedAt,
		).Scan(&user.ID); err != nil {
			if pkg.IsUniqueViolationError(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if _, err := tx.Exec(
			ctx,
			`INSERT INTO user_activity (user_id, date, steps, calorie_intake) VALUES ($1, $2, 0, 0);`,
			user.ID, user.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert initial activity: %w", err)
		}

		if _, err := tx.Exec(
			ctx,
			`INSERT INTO user_weight (user_id, date, weight) VALUES ($1, $2, $3);`,
			user.ID, user.CreatedAt, initialWeight,
		); err != nil {
			return fmt.Errorf("insert initial weight: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	return &user, nil
}

func (r *Repo) UserByID(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.user_by_id")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", id))

	user, err := scanUser(r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM app_user WHERE id = $1;`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *Repo) UserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.user_by_username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := scanUser(r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM app_user WHERE username = $1;`,
		username,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *Repo) UsernameExists(ctx context.Context, username string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.username_exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE username = $1);`,
		username,
	).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repo) execForUser(ctx context.Context, spanName string, userID int, sql string, args ...any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, spanName)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	return execUserUpdate(ctx, r.db, sql, args...)
}

func execUserUpdate(ctx context.Context, db dbtx, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile updates the biometric fields and, when newWeight is set, logs it
// in the same transaction.
func (r *Repo) UpdateProfile(ctx context.Context, userID int, age int, gender string, height float64, newWeight *WeightEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.update_profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := execUserUpdate(ctx, tx,
			`UPDATE app_user SET age = $1, gender = $2, height = $3 WHERE id = $4;`,
			age, gender, height, userID,
		); err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		if newWeight == nil {
			return nil
		}
		newWeight.UserID = userID
		return insertWeight(ctx, tx, newWeight)
	})
}

func (r *Repo) UpdateGoal(ctx context.Context, userID int, goal HealthGoal) error {
	return r.execForUser(ctx, "repo.health.update_goal", userID,
		`UPDATE app_user SET goal_kind = $1, goal_name = $2, goal_text = $3, goal_value = $4 WHERE id = $5;`,
		string(goal.Kind), goal.Name, goal.Text, goal.Value, userID,
	)
}

// UpdateMetrics overwrites the cached weight and BMI. Nil values are stored as NULL.
func (r *Repo) UpdateMetrics(ctx context.Context, userID int, weight, bmi *float64) error {
	return r.execForUser(ctx, "repo.health.update_metrics", userID,
		`UPDATE app_user SET weight = $1, bmi = $2 WHERE id = $3;`,
		weight, bmi, userID,
	)
}

func (r *Repo) SetDashboardImage(ctx context.Context, userID int, image []byte) error {
	return r.execForUser(ctx, "repo.health.set_dashboard_image", userID,
		`UPDATE app_user SET dashboard_image = $1 WHERE id = $2;`,
		image, userID,
	)
}

func (r *Repo) SetCommunity(ctx context.Context, userID int, communityID int) error {
	return r.execForUser(ctx, "repo.health.set_community", userID,
		`UPDATE app_user SET community_id = $1 WHERE id = $2;`,
		communityID, userID,
	)
}

func (r *Repo) DashboardImage(ctx context.Context, userID int) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.dashboard_image")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var image []byte
	if err := r.db.QueryRow(
		ctx,
		`SELECT dashboard_image FROM app_user WHERE id = $1;`,
		userID,
	).Scan(&image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return image, nil
}

// AddActivity logs the activity and stores its steps and calories as the
// user's latest values, in one transaction.
func (r *Repo) AddActivity(ctx context.Context, activity Activity) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.add_activity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", activity.UserID))

	if err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return insertActivity(ctx, tx, &activity)
	}); err != nil {
		return nil, err
	}

	return &activity, nil
}

// AddActivityAndWeight logs both entries in one transaction, so either both are
// stored or none.
func (r *Repo) AddActivityAndWeight(ctx context.Context, activity Activity, entry WeightEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.add_activity_and_weight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", activity.UserID))

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertActivity(ctx, tx, &activity); err != nil {
			return err
		}
		return insertWeight(ctx, tx, &entry)
	})
}

func insertActivity(ctx context.Context, db dbtx, activity *Activity) error {
	if err := db.QueryRow(
		ctx,
		`INSERT INTO user_activity (user_id, date, steps, calorie_intake) VALUES ($1, $2, $3, $4) RETURNING id;`,
		activity.UserID, activity.Date, activity.Steps, activity.CalorieIntake,
	).Scan(&activity.ID); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("insert activity: %w", err)
	}

	if err := execUserUpdate(ctx, db,
		`UPDATE app_user SET steps = $1, calorie_intake = $2 WHERE id = $3;`,
		activity.Steps, activity.CalorieIntake, activity.UserID,
	); err != nil {
		return fmt.Errorf("update activity cache: %w", err)
	}

	return nil
}

func (r *Repo) ListActivities(ctx context.Context, userID int) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.list_activities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, date, steps, calorie_intake
			FROM user_activity
			WHERE user_id = $1
			ORDER BY date ASC, id ASC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Date, &a.Steps, &a.CalorieIntake); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *Repo) AddWeight(ctx context.Context, entry WeightEntry) (_ *WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.add_weight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", entry.UserID))

	if err := insertWeight(ctx, r.db, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func insertWeight(ctx context.Context, db dbtx, entry *WeightEntry) error {
	if err := db.QueryRow(
		ctx,
		`INSERT INTO user_weight (user_id, date, weight) VALUES ($1, $2, $3) RETURNING id;`,
		entry.UserID, entry.Date, entry.Weight,
	).Scan(&entry.ID); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("insert weight: %w", err)
	}
	return nil
}

// ListWeights returns the weight log of the user in insertion order.
func (r *Repo) ListWeights(ctx context.Context, userID int) (_ []WeightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.list_weights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, date, weight FROM user_weight WHERE user_id = $1 ORDER BY id ASC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WeightEntry
	for rows.Next() {
		var e WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Weight); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repo) AddCommunity(ctx context.Context, name string, createdAt time.Time) (_ *Community, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.add_community")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c := Community{
		Name:      name,
		CreatedAt: createdAt,
	}
	// concurrent joins with the same new name end up in the same row
	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO community (name, created_at) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, created_at;`,
		name, createdAt,
	).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("community.id", c.ID))
	return &c, nil
}

func (r *Repo) CommunityByID(ctx context.Context, id int) (_ *Community, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.community_by_id")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("community.id", id))

	var c Community
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, name, created_at FROM community WHERE id = $1;`,
		id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCommunities(ctx context.Context) (_ []Community, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.list_communities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, created_at FROM community ORDER BY name ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []Community
	for rows.Next() {
		var c Community
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return communities, nil
}

func (r *Repo) CommunityMembers(ctx context.Context, communityID int) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.health.community_members")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("community.id", communityID))

	rows, err := r.db.Query(
		ctx,
		`SELECT username FROM app_user WHERE community_id = $1 ORDER BY username ASC;`,
		communityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		members = append(members, username)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
