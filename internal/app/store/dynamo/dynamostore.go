// internal/app/store/dynamo/dynamostore.go
//
// Package dynamostore keeps board, staff and assignment history in DynamoDB
// tables. Items are decoded schema-less so historical attribute names resolve
// through the shared alias lists.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/store/boardfields"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/whiteboard"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/domain/models"
)

// Key attributes of the three tables.
const (
	BoardKey   = "Room"
	StaffKey   = "staff_id"
	HistoryKey = "assignment_id"
)

var (
	_ whiteboard.StaffRepository = (*Store)(nil)
	_ whiteboard.StaffWriter     = (*Store)(nil)
	_ whiteboard.BoardRepository = (*Store)(nil)
	_ whiteboard.HistoryLog      = (*Store)(nil)
	_ whiteboard.HistoryReader   = (*Store)(nil)
)

// Config names the tables and, optionally, a non-AWS endpoint such as
// DynamoDB Local.
type Config struct {
	Region       string
	Endpoint     string
	BoardTable   string
	StaffTable   string
	HistoryTable string
}

type Store struct {
	client  *dynamodb.Client
	board   string
	staff   string
	history string
}

// New loads AWS configuration from the environment and builds a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient builds a Store around an existing client.
func NewWithClient(client *dynamodb.Client, cfg Config) *Store {
	return &Store{
		client:  client,
		board:   cfg.BoardTable,
		staff:   cfg.StaffTable,
		history: cfg.HistoryTable,
	}
}

// Backend returns s wired into all three repository roles.
func (s *Store) Backend() whiteboard.Backend {
	return whiteboard.Backend{Staff: s, Board: s, History: s}
}

// EnsureTables creates any missing table with on-demand billing. Intended for
// DynamoDB Local; production tables are provisioned outside the app.
func (s *Store) EnsureTables(ctx context.Context) error {
	for table, key := range map[string]string{s.board: BoardKey, s.staff: StaffKey, s.history: HistoryKey} {
		_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
		if err == nil {
			continue
		}
		var nf *types.ResourceNotFoundException
		if !errors.As(err, &nf) {
			return fmt.Errorf("describe %s: %w", table, err)
		}
		_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:   aws.String(table),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(key), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(key), KeyType: types.KeyTypeHash},
			},
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

// ─── staff ──────────────────────────────────────────────────────────────────

func (s *Store) ListStaff(ctx context.Context) ([]models.StaffRecord, error) {
	docs, err := s.scan(ctx, s.staff)
	if err != nil {
		return nil, err
	}
	out := make([]models.StaffRecord, 0, len(docs))
	for _, doc := range docs {
		out = append(out, boardfields.Staff(doc))
	}
	return out, nil
}

func (s *Store) GetStaff(ctx context.Context, staffID string) (models.StaffRecord, error) {
	doc, err := s.get(ctx, s.staff, StaffKey, staffID)
	if err != nil {
		return models.StaffRecord{}, err
	}
	return boardfields.Staff(doc), nil
}

func (s *Store) PutStaff(ctx context.Context, rec models.StaffRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(s.staff), Item: item})
	return err
}

// ─── board ──────────────────────────────────────────────────────────────────

func (s *Store) ListEntries(ctx context.Context) ([]models.BoardEntry, error) {
	docs, err := s.scan(ctx, s.board)
	if err != nil {
		return nil, err
	}
	out := make([]models.BoardEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, boardfields.Resolve(doc))
	}
	return out, nil
}

func (s *Store) GetEntry(ctx context.Context, room string) (models.BoardEntry, error) {
	doc, err := s.get(ctx, s.board, BoardKey, room)
	if err != nil {
		return models.BoardEntry{}, err
	}
	return boardfields.Resolve(doc), nil
}

func (s *Store) InsertEntry(ctx context.Context, e models.BoardEntry) error {
	doc := boardfields.Doc(e)
	delete(doc, boardfields.Room[0])
	doc[BoardKey] = e.Room
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.board),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": BoardKey},
	})
	if isConditionFailed(err) {
		return whiteboard.ErrAlreadyExists
	}
	return err
}

// UpdateEntry sets canonical attributes and removes legacy aliases in one
// conditional write.
func (s *Store) UpdateEntry(ctx context.Context, e models.BoardEntry) error {
	names := map[string]string{"#k": BoardKey}
	values := map[string]types.AttributeValue{}

	doc := boardfields.Doc(e)
	delete(doc, boardfields.Room[0])
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var set []string
	for i, k := range keys {
		n, v := fmt.Sprintf("#s%d", i), fmt.Sprintf(":v%d", i)
		names[n] = k
		values[v] = &types.AttributeValueMemberS{Value: doc[k].(string)}
		set = append(set, n+" = "+v)
	}
	var remove []string
	for i, k := range boardfields.Legacy() {
		n := fmt.Sprintf("#r%d", i)
		names[n] = k
		remove = append(remove, n)
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.board),
		Key:                       map[string]types.AttributeValue{BoardKey: &types.AttributeValueMemberS{Value: e.Room}},
		UpdateExpression:          aws.String("SET " + strings.Join(set, ", ") + " REMOVE " + strings.Join(remove, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#k)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if isConditionFailed(err) {
		return whiteboard.ErrNotFound
	}
	return err
}

// ─── history ────────────────────────────────────────────────────────────────

func (s *Store) AppendAssignment(ctx context.Context, rec models.AssignmentHistoryRecord) error {
	if rec.Cases == nil {
		rec.Cases = []models.CaseRecord{}
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.history),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": HistoryKey},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("assignment %s: %w", rec.AssignmentID, whiteboard.ErrAlreadyExists)
	}
	return err
}

// RecentAssignments scans the history table and returns the newest records.
func (s *Store) RecentAssignments(ctx context.Context, limit int) ([]models.AssignmentHistoryRecord, error) {
	var out []models.AssignmentHistoryRecord
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{TableName: aws.String(s.history)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var recs []models.AssignmentHistoryRecord
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &recs); err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ─── helpers ────────────────────────────────────────────────────────────────

func (s *Store) scan(ctx context.Context, table string) ([]map[string]any, error) {
	var docs []map[string]any
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{TableName: aws.String(table)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, item := range page.Items {
			var doc map[string]any
			if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *Store) get(ctx context.Context, table, key, id string) (map[string]any, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       map[string]types.AttributeValue{key: &types.AttributeValueMemberS{Value: id}},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, whiteboard.ErrNotFound
	}
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
