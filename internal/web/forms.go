package web

import (
	"fmt"
	"math"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const formDateLayout = "2006-01-02"

type registerForm struct {
	Username string  `form:"username" validate:"required,max=80"`
	Password string  `form:"password" validate:"required,max=72"`
	Height   float64 `form:"height" validate:"gt=0,lte=300"`
	Weight   float64 `form:"weight" validate:"gt=0,lte=700"`
	Age      int     `form:"age" validate:"gte=0,lte=150"`
	Gender   string  `form:"gender" validate:"max=10"`
	Goal     string  `form:"health_goal" validate:"max=100"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type activityForm struct {
	Steps         int `form:"steps" validate:"gte=0"`
	CalorieIntake int `form:"calorie_intake" validate:"gte=0"`
}

type dataForm struct {
	activityForm
	Weight float64 `form:"weight" validate:"gt=0,lte=700"`
}

type weightForm struct {
	Weight float64 `form:"weight" validate:"gt=0,lte=700"`
	// Date is optional, zero means now.
	Date time.Time `form:"date"`
}

type profileForm struct {
	Age    int      `form:"age" validate:"gte=0,lte=150"`
	Gender string   `form:"gender" validate:"max=10"`
	Height float64  `form:"height" validate:"gt=0,lte=300"`
	Weight *float64 `form:"weight" validate:"omitempty,gt=0,lte=700"`
}

type goalForm struct {
	Name  string `form:"new_goal" validate:"required,max=100"`
	Value string `form:"new_goal_value" validate:"required,max=100"`
}

type joinCommunityForm struct {
	CommunityID   int    `form:"community_id" validate:"gte=0"`
	CommunityName string `form:"community_name" validate:"max=100"`
}

// formReader reads typed values from a parsed form, collecting parse errors per field.
type formReader struct {
	r    *http.Request
	errs map[string]string
}

func newFormReader(r *http.Request) (*formReader, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return &formReader{
		r:    r,
		errs: map[string]string{},
	}, nil
}

func (f *formReader) str(name string) string {
	return strings.TrimSpace(f.r.PostForm.Get(name))
}

// password values are taken as they are
func (f *formReader) raw(name string) string {
	return f.r.PostForm.Get(name)
}

func (f *formReader) intField(name string) int {
	v := f.str(name)
	i, err := strconv.Atoi(v)
	if err != nil {
		f.errs[name] = fmt.Sprintf("%s must be a whole number, got [%s]", name, v)
		return 0
	}
	return i
}

// optionalInt treats an empty field as zero.
func (f *formReader) optionalInt(name string) int {
	if f.str(name) == "" {
		return 0
	}
	return f.intField(name)
}

func (f *formReader) floatField(name string) float64 {
	v := f.str(name)
	fl, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(fl) || math.IsInf(fl, 0) {
		f.errs[name] = fmt.Sprintf("%s must be a number, got [%s]", name, v)
		return 0
	}
	return fl
}

func (f *formReader) optionalFloat(name string) *float64 {
	if f.str(name) == "" {
		return nil
	}
	fl := f.floatField(name)
	return &fl
}

func (f *formReader) optionalDate(name string) time.Time {
	v := f.str(name)
	if v == "" {
		return time.Time{}
	}
	d, err := time.ParseInLocation(formDateLayout, v, time.Local)
	if err != nil {
		f.errs[name] = fmt.Sprintf("%s must be a date (YYYY-MM-DD), got [%s]", name, v)
		return time.Time{}
	}
	return d
}

// formError describes why a submitted form was rejected.
type formError struct {
	Messages []string
}

func (e *formError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// check returns the collected parse errors, or the validation errors of the form struct.
func (f *formReader) check(validate *validator.Validate, form any) error {
	if len(f.errs) > 0 {
		messages := make([]string, 0, len(f.errs))
		for _, msg := range f.errs {
			messages = append(messages, msg)
		}
		sort.Strings(messages)
		return &formError{Messages: messages}
	}

	if err := validate.Struct(form); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return &formError{Messages: messages}
	}

	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	// report form field names instead of the struct field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("form")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

func readRegisterForm(r *http.Request, validate *validator.Validate) (registerForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return registerForm{}, err
	}
	form := registerForm{
		Username: f.str("username"),
		Password: f.raw("password"),
		Height:   f.floatField("height"),
		Weight:   f.floatField("weight"),
		Age:      f.intField("age"),
		Gender:   f.str("gender"),
		Goal:     f.str("health_goal"),
	}
	return form, f.check(validate, form)
}

func readLoginForm(r *http.Request, validate *validator.Validate) (loginForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return loginForm{}, err
	}
	form := loginForm{
		Username: f.str("username"),
		Password: f.raw("password"),
	}
	return form, f.check(validate, form)
}

func readActivity(f *formReader) activityForm {
	return activityForm{
		Steps:         f.intField("steps"),
		CalorieIntake: f.intField("calorie_intake"),
	}
}

func readActivityForm(r *http.Request, validate *validator.Validate) (activityForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return activityForm{}, err
	}
	form := readActivity(f)
	return form, f.check(validate, form)
}

func readDataForm(r *http.Request, validate *validator.Validate) (dataForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return dataForm{}, err
	}
	form := dataForm{
		activityForm: readActivity(f),
		Weight:       f.floatField("weight"),
	}
	return form, f.check(validate, form)
}

func readWeightForm(r *http.Request, validate *validator.Validate) (weightForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return weightForm{}, err
	}
	form := weightForm{
		Weight: f.floatField("weight"),
		Date:   f.optionalDate("date"),
	}
	return form, f.check(validate, form)
}

func readProfileForm(r *http.Request, validate *validator.Validate) (profileForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return profileForm{}, err
	}
	form := profileForm{
		Age:    f.intField("age"),
		Gender: f.str("gender"),
		Height: f.floatField("height"),
		Weight: f.optionalFloat("weight"),
	}
	return form, f.check(validate, form)
}

func readGoalForm(r *http.Request, validate *validator.Validate) (goalForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return goalForm{}, err
	}
	form := goalForm{
		Name:  f.str("new_goal"),
		Value: f.str("new_goal_value"),
	}
	return form, f.check(validate, form)
}

func readJoinCommunityForm(r *http.Request, validate *validator.Validate) (joinCommunityForm, error) {
	f, err := newFormReader(r)
	if err != nil {
		return joinCommunityForm{}, err
	}
	form := joinCommunityForm{
		CommunityID:   f.optionalInt("community_id"),
		CommunityName: f.str("community_name"),
	}
	if form.CommunityID == 0 && form.CommunityName == "" {
		f.errs["community"] = "community_id or community_name is required"
	}
	return form, f.check(validate, form)
}
