// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/smart-expense/backend/config"
	"github.com/smart-expense/backend/internal/infra/dependency"
	"github.com/smart-expense/backend/internal/integration/persistence/model"
	"github.com/smart-expense/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testManifest is the asset set installed by the cache in scenarios.
var testManifest = []string{"/index.html", "/main.js", "/App.css"}

type testContext struct {
	server   *httptest.Server
	client   *http.Client
	headers  map[string]string
	response *response

	db       *mock.Db
	redis    *redis.Client
	origin   *mock.Origin
	injector *dependency.Injector

	accessToken   string
	refreshToken  string
	currentUserID uuid.UUID
	lastExpenseID uuid.UUID
}

type response struct {
	status int
	body   any
	raw    []byte
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb(map[string]any{
			"users":          &model.UserModel{},
			"refresh_tokens": &model.RefreshTokenModel{},
			"expenses":       &model.ExpenseModel{},
		}),
		redis: mock.NewRedis(),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, test.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Given(`^the user is logged in with valid tokens$`, test.theUserIsLoggedInWithValidTokens)
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)

	// Expense setup steps
	ctx.Given(`^an expense exists with title "([^"]*)" amount "([^"]*)" and category "([^"]*)"$`, test.anExpenseExists)
	ctx.Given(`^an expense exists with title "([^"]*)" amount "([^"]*)" category "([^"]*)" dated this month$`, test.anExpenseExistsThisMonth)
	ctx.Given(`^an expense exists with title "([^"]*)" amount "([^"]*)" category "([^"]*)" dated (\d+) months ago$`, test.anExpenseExistsMonthsAgo)
	ctx.Given(`^another user owns an expense with title "([^"]*)"$`, test.anotherUserOwnsAnExpense)

	// Asset cache setup steps
	ctx.Given(`^the origin serves "([^"]*)" with content "([^"]*)"$`, test.theOriginServes)
	ctx.Given(`^the origin serves the default asset manifest$`, test.theOriginServesTheDefaultManifest)
	ctx.Given(`^the origin fails for "([^"]*)"$`, test.theOriginFailsFor)
	ctx.Given(`^the asset cache is installed and activated$`, test.theAssetCacheIsInstalledAndActivated)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response body should be "([^"]*)"$`, test.theResponseBodyShouldBe)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)

	// Origin assertion steps
	ctx.Then(`^the origin should have received (\d+) requests for "([^"]*)"$`, test.theOriginShouldHaveReceivedRequestsFor)
}

// before resets all shared state and boots a fresh server for the scenario.
// The asset cache state machine lives in the injector, so every scenario gets
// a new injector and a new origin.
func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.lastExpenseID = uuid.Nil
	t.response = nil

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(t.redis); err != nil {
		return err
	}

	t.origin = mock.NewOrigin()

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.Assets.Generation = "test-v1"
	cfg.Assets.Manifest = testManifest
	cfg.Assets.OriginURL = t.origin.URL()
	cfg.Assets.FetchTimeout = 5 * time.Second

	t.injector = dependency.NewInjector(cfg, t.db.DbConn, t.redis)
	engine := t.injector.Router.Setup("test")
	t.server = httptest.NewServer(engine)

	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
	}
	if t.origin != nil {
		t.origin.Close()
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	if t.server == nil {
		return errors.New("test server is not running")
	}
	return nil
}

func (t *testContext) aUserExistsWithEmail(email string) error {
	return t.createUser(email, "DefaultPass123!", "Test User")
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	return t.createUser(email, password, "Test User")
}

func (t *testContext) createUser(email, password, name string) error {
	userID := uuid.New()
	t.currentUserID = userID

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:           userID,
		Email:        email,
		Name:         name,
		PasswordHash: hashPassword(password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return t.db.DbConn.Create(user).Error
}

func hashPassword(password string) string {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash password: %v", err))
	}
	return string(hashedBytes)
}

func (t *testContext) theUserIsLoggedInWithValidTokens() error {
	now := time.Now().UTC()

	accessToken, err := signTestToken(t.currentUserID, "test@example.com", "access", now, 15*time.Minute)
	if err != nil {
		return err
	}
	t.accessToken = accessToken

	refreshToken, err := signTestToken(t.currentUserID, "test@example.com", "refresh", now, 7*24*time.Hour)
	if err != nil {
		return err
	}
	t.refreshToken = refreshToken

	refreshTokenModel := &model.RefreshTokenModel{
		ID:          uuid.New(),
		Token:       t.refreshToken,
		UserID:      t.currentUserID,
		Invalidated: false,
		ExpiresAt:   now.Add(7 * 24 * time.Hour),
		CreatedAt:   now,
	}

	return t.db.DbConn.Create(refreshTokenModel).Error
}

func signTestToken(userID uuid.UUID, email, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID.String(),
		"email":      email,
		"token_type": tokenType,
		"exp":        jwt.NewNumericDate(now.Add(ttl)),
		"iat":        jwt.NewNumericDate(now),
		"nbf":        jwt.NewNumericDate(now),
		"iss":        "smart-expense",
		"sub":        userID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) anExpenseExists(title, amount, category string) error {
	return t.createExpense(t.currentUserID, title, amount, category, nil)
}

func (t *testContext) anExpenseExistsThisMonth(title, amount, category string) error {
	date := time.Now().UTC()
	return t.createExpense(t.currentUserID, title, amount, category, &date)
}

func (t *testContext) anExpenseExistsMonthsAgo(title, amount, category string, months int) error {
	now := time.Now().UTC()
	// Anchor at the first of the month so month arithmetic never overflows
	date := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, -months, 0)
	return t.createExpense(t.currentUserID, title, amount, category, &date)
}

func (t *testContext) anotherUserOwnsAnExpense(title string) error {
	otherUserID := uuid.New()
	now := time.Now().UTC()
	user := &model.UserModel{
		ID:           otherUserID,
		Email:        fmt.Sprintf("other-%s@example.com", otherUserID.String()[:8]),
		Name:         "Other User",
		PasswordHash: hashPassword("OtherPass123!"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.db.DbConn.Create(user).Error; err != nil {
		return err
	}
	return t.createExpense(otherUserID, title, "10.00", "Others", nil)
}

func (t *testContext) createExpense(userID uuid.UUID, title, amount, category string, date *time.Time) error {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", amount, err)
	}

	expenseID := uuid.New()
	t.lastExpenseID = expenseID

	createdAt := time.Now().UTC()
	if date != nil {
		createdAt = *date
	}

	expenseModel := &model.ExpenseModel{
		ID:        expenseID,
		UserID:    userID,
		Title:     title,
		Amount:    parsedAmount,
		Category:  category,
		Date:      date,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	return t.db.DbConn.Create(expenseModel).Error
}

func (t *testContext) theOriginServes(path, content string) error {
	t.origin.SetAsset(path, content, "text/plain; charset=utf-8")
	return nil
}

func (t *testContext) theOriginServesTheDefaultManifest() error {
	for _, path := range testManifest {
		t.origin.SetAsset(path, "content of "+path, "text/plain; charset=utf-8")
	}
	return nil
}

func (t *testContext) theOriginFailsFor(path string) error {
	t.origin.FailPath(path)
	return nil
}

func (t *testContext) theAssetCacheIsInstalledAndActivated() error {
	ctx := context.Background()
	if err := t.injector.AssetCache.Install(ctx); err != nil {
		return fmt.Errorf("failed to install asset cache: %w", err)
	}
	if err := t.injector.AssetCache.Activate(ctx); err != nil {
		return fmt.Errorf("failed to activate asset cache: %w", err)
	}
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{expense_id}}", t.lastExpenseID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.server.URL + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
		raw:    bodyBytes,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
	} else {
		t.response.body = responseBody

		// Capture the expense ID for follow-up requests
		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.lastExpenseID = id
			}
		}

		// Capture rotated tokens
		if token, ok := responseBody["access_token"].(string); ok && token != "" {
			t.accessToken = token
		}
		if token, ok := responseBody["refresh_token"].(string); ok && token != "" {
			t.refreshToken = token
		}
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	if getFieldValue(t.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseBodyShouldBe(expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if string(t.response.raw) != expected {
		return fmt.Errorf("expected body '%s', got '%s'", expected, string(t.response.raw))
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	result := t.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
	if result.Error != nil {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theOriginShouldHaveReceivedRequestsFor(quantity int, path string) error {
	hits := t.origin.Hits(path)
	if hits != quantity {
		return fmt.Errorf("expected %d origin requests for '%s', got %d", quantity, path, hits)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
