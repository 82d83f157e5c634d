package dynamostore_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamostore "github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/dynamo"
)

// fakeDynamo answers the subset of the DynamoDB JSON protocol the store uses.
// Items are kept in wire form: attribute name to {"S": ...} style maps.
type fakeDynamo struct {
	mu     sync.Mutex
	keys   map[string]string
	tables map[string][]map[string]any
	failOn map[string]bool
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		keys: map[string]string{
			"Whiteboard":      dynamostore.BoardKey,
			"Staff":           dynamostore.StaffKey,
			"RoomAssignments": dynamostore.HistoryKey,
		},
		tables: map[string][]map[string]any{},
		failOn: map[string]bool{},
	}
}

func newTestStore(t *testing.T, fake *fakeDynamo) *dynamostore.Store {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
		o.BaseEndpoint = aws.String("https://dynamodb.mock.local")
		o.RetryMaxAttempts = 1
		o.DisableValidateResponseChecksum = true
	})
	return dynamostore.NewWithClient(client, dynamostore.Config{
		BoardTable:   "Whiteboard",
		StaffTable:   "Staff",
		HistoryTable: "RoomAssignments",
	})
}

func (f *fakeDynamo) seed(table string, item map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append(f.tables[table], item)
}

func (f *fakeDynamo) items(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

func (f *fakeDynamo) RoundTrip(req *http.Request) (*http.Response, error) {
	op := strings.TrimPrefix(req.Header.Get("X-Amz-Target"), "DynamoDB_20120810.")
	var in map[string]any
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&in)
	}
	table, _ := in["TableName"].(string)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn[op+":"+table] {
		return errorResponse(http.StatusInternalServerError, "InternalServerError", "injected failure"), nil
	}

	switch op {
	case "DescribeTable":
		if _, ok := f.keys[table]; !ok {
			return errorResponse(http.StatusBadRequest, "ResourceNotFoundException", "table not found"), nil
		}
		return jsonResponse(map[string]any{"Table": map[string]any{"TableName": table, "TableStatus": "ACTIVE"}}), nil

	case "CreateTable":
		schema := in["KeySchema"].([]any)[0].(map[string]any)
		f.keys[table] = schema["AttributeName"].(string)
		return jsonResponse(map[string]any{"TableDescription": map[string]any{"TableName": table, "TableStatus": "ACTIVE"}}), nil

	case "Scan":
		items := f.tables[table]
		return jsonResponse(map[string]any{"Items": items, "Count": len(items), "ScannedCount": len(items)}), nil

	case "GetItem":
		if i := f.find(table, in["Key"]); i >= 0 {
			return jsonResponse(map[string]any{"Item": f.tables[table][i]}), nil
		}
		return jsonResponse(map[string]any{}), nil

	case "PutItem":
		item := in["Item"].(map[string]any)
		i := f.find(table, map[string]any{f.keys[table]: item[f.keys[table]]})
		cond, _ := in["ConditionExpression"].(string)
		if i >= 0 && strings.Contains(cond, "attribute_not_exists") {
			return conditionFailed(), nil
		}
		if i >= 0 {
			f.tables[table][i] = item
		} else {
			f.tables[table] = append(f.tables[table], item)
		}
		return jsonResponse(map[string]any{}), nil

	case "UpdateItem":
		i := f.find(table, in["Key"])
		if i < 0 {
			return conditionFailed(), nil
		}
		f.applyUpdate(f.tables[table][i], in)
		return jsonResponse(map[string]any{}), nil
	}
	return errorResponse(http.StatusBadRequest, "UnknownOperationException", op), nil
}

func (f *fakeDynamo) find(table string, key any) int {
	want, _ := key.(map[string]any)
	k := f.keys[table]
	for i, item := range f.tables[table] {
		if reflect.DeepEqual(item[k], want[k]) {
			return i
		}
	}
	return -1
}

// applyUpdate handles "SET #a = :v, ... REMOVE #b, ..." expressions.
func (f *fakeDynamo) applyUpdate(item map[string]any, in map[string]any) {
	names, _ := in["ExpressionAttributeNames"].(map[string]any)
	values, _ := in["ExpressionAttributeValues"].(map[string]any)
	expr, _ := in["UpdateExpression"].(string)

	setPart, removePart := expr, ""
	if i := strings.Index(expr, " REMOVE "); i >= 0 {
		setPart, removePart = expr[:i], expr[i+len(" REMOVE "):]
	}
	setPart = strings.TrimPrefix(setPart, "SET ")
	for _, clause := range strings.Split(setPart, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			continue
		}
		item[names[parts[0]].(string)] = values[parts[1]]
	}
	if removePart != "" {
		for _, n := range strings.Split(removePart, ", ") {
			delete(item, names[n].(string))
		}
	}
}

func jsonResponse(body any) *http.Response {
	b, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/x-amz-json-1.0"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func errorResponse(status int, code, msg string) *http.Response {
	b, _ := json.Marshal(map[string]string{
		"__type":  "com.amazonaws.dynamodb.v20120810#" + code,
		"message": msg,
	})
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/x-amz-json-1.0"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func conditionFailed() *http.Response {
	return errorResponse(http.StatusBadRequest, "ConditionalCheckFailedException", "The conditional request failed")
}
