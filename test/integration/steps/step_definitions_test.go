//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/rule-engine/config"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	"github.com/finance-tracker/rule-engine/internal/infra/dependency"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
	"github.com/finance-tracker/rule-engine/test/integration/mock"
)

var tags string

func init() {
	flag.StringVar(&tags, "scenarios", "", "tags to run")
}

func TestFeatures(t *testing.T) {
	flag.Parse()

	suite := godog.TestSuite{
		Name: "rule-engine-api",
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			InitializeScenario(s)
		},
		Options: &godog.Options{
			Format:      "pretty",
			Paths:       []string{"../features"},
			Tags:        tags,
			Concurrency: 1,
			Strict:      true,
			TestingT:    t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type testContext struct {
	uri               string
	headers           map[string]string
	client            *http.Client
	response          *response
	db                *mock.Db
	ruleIDs           map[string]uuid.UUID
	transactionIDs    map[string]uuid.UUID
	lastTransactionID uuid.UUID
	lastRunID         uuid.UUID
}

type response struct {
	status int
	body   any
}

var serverInit sync.Once
var testDB *mock.Db
var testServerPort int
var portInit sync.Once

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
	})
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
		db: mock.NewDb("rule_engine", map[string]any{
			"transaction_rules": &model.TransactionRuleModel{},
			"transactions":      &model.TransactionModel{},
		}),
	}

	testDB = test.db

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Setup steps
	ctx.Given(`^a rule "([^"]*)" exists with body:$`, test.aRuleExistsWithBody)
	ctx.Given(`^the following transactions exist:$`, test.theFollowingTransactionsExist)

	// Header steps
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I wait for the batch run to finish$`, test.iWaitForTheBatchRunToFinish)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.response = nil
	t.ruleIDs = make(map[string]uuid.UUID)
	t.transactionIDs = make(map[string]uuid.UUID)
	t.lastTransactionID = uuid.Nil
	t.lastRunID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	_ = mock.ClearRedis(context.Background(), mock.NewRedis())
}

func (t *testContext) startServer() error {
	var initErr error
	serverInit.Do(func() {
		gin.SetMode(gin.TestMode)

		cfg := config.Load()
		cfg.Batch.Tracker = dependency.TrackerRedis
		cfg.Batch.PageSize = 2
		cfg.Batch.StartsPerMinute = 0

		injector, err := dependency.NewInjector(cfg, testDB.DbConn, func(context.Context) bool {
			return testDB != nil && testDB.DbConn != nil
		}, mock.NewRedis())
		if err != nil {
			initErr = err
			return
		}

		engine := injector.Router.Setup("test")
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}

		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if initErr != nil {
		return initErr
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("api server did not become healthy")
}

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func (t *testContext) aRuleExistsWithBody(name string, body *godog.DocString) error {
	if err := t.executeRequest(http.MethodPost, "/api/v1/rules", []byte(body.Content)); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("failed to create rule %q: %d %v", name, t.response.status, t.response.body)
	}

	idStr, _ := getFieldValue(t.response.body, "id").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("rule response has no id: %v", t.response.body)
	}
	t.ruleIDs[name] = id
	return nil
}

// theFollowingTransactionsExist stores history rows directly, bypassing the live rules.
// Columns: key, merchant, amount, category (optional), narration (optional), blocked (optional).
func (t *testContext) theFollowingTransactionsExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("transaction table needs a header and at least one row")
	}

	header := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		header[i] = cell.Value
	}

	repo := persistence.NewTransactionRepository(testDB.DbConn)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, row := range table.Rows[1:] {
		values := make(map[string]string, len(header))
		for j, cell := range row.Cells {
			values[header[j]] = cell.Value
		}

		amount, err := decimal.NewFromString(values["amount"])
		if err != nil {
			return fmt.Errorf("row %d: invalid amount %q", i+1, values["amount"])
		}

		tx := entity.NewTransaction(base.AddDate(0, 0, i), amount, values["merchant"], values["category"],
			"", "DEBIT", "HDFC Bank", values["narration"])
		tx.CreatedAt = base.Add(time.Duration(i) * time.Second)
		tx.IsBlocked = values["blocked"] == "true"

		if err := repo.Create(context.Background(), tx); err != nil {
			return err
		}
		if key := values["key"]; key != "" {
			t.transactionIDs[key] = tx.ID
		}
		t.lastTransactionID = tx.ID
	}
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
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

func (t *testContext) iWaitForTheBatchRunToFinish() error {
	if t.lastRunID == uuid.Nil {
		return errors.New("no batch run was started")
	}

	path := "/api/v1/batch-runs/" + t.lastRunID.String()
	for i := 0; i < 100; i++ {
		if err := t.executeRequest(http.MethodGet, path, nil); err != nil {
			return err
		}
		status, _ := getFieldValue(t.response.body, "status").(string)
		if entity.BatchRunStatus(status).IsTerminal() {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("batch run %s did not finish: %v", t.lastRunID, t.response.body)
}

// replacePlaceholders expands {{rule:NAME}}, {{transaction:KEY}}, {{transaction_id}} and {{run_id}}.
func (t *testContext) replacePlaceholders(content string) string {
	for name, id := range t.ruleIDs {
		content = strings.ReplaceAll(content, "{{rule:"+name+"}}", id.String())
	}
	for key, id := range t.transactionIDs {
		content = strings.ReplaceAll(content, "{{transaction:"+key+"}}", id.String())
	}
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	content = strings.ReplaceAll(content, "{{run_id}}", t.lastRunID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var req *http.Request
	var err error

	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

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
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture the run started by POST /rules/:id/apply
	if idStr, ok := responseBody["run_id"].(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastRunID = id
		}
	}

	// Capture the ingested transaction
	if idStr, ok := getFieldValue(responseBody, "transaction.id").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastTransactionID = id
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
	if actualValue != t.replacePlaceholders(expectedValue) {
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

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	if tableModel, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(tableModel).Elem()
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
	return fmt.Errorf("table '%s' not found in models", table)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	if tableModel, ok := t.db.GetModel(table); ok {
		entityType := reflect.TypeOf(tableModel).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		query := t.db.DbConn.Unscoped()
		for key, value := range criteria {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}

		result := query.Find(entitySlicePtr.Interface())
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
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
