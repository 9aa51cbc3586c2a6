package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	sc "github.com/dmitrijs2005/gophledger/internal/server/config"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var exportContentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatJSON: "application/json",
}

// Export describes an uploaded ledger snapshot.
type Export struct {
	Key              string    `json:"key"`
	Format           string    `json:"format"`
	TransactionCount int       `json:"transaction_count"`
	URL              string    `json:"url"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// ExportService uploads a user's ledger to object storage and hands back
// a time-limited download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg, logger: logger}
}

// exportKey places objects under the owner's prefix, bucketed by day.
func exportKey(userID, format string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%v.%s", userID, now.Year(), now.Month(), now.Day(), uuid.New(), format)
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// ExportTransactions writes every transaction of userID in the requested
// format, uploads it and presigns a GET for it.
func (s *ExportService) ExportTransactions(ctx context.Context, userID, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, invalid("unsupported export format %q, expected csv or json", format)
	}

	txs, err := s.repomanager.Transactions(s.db).List(ctx, userID, models.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	body, err := encodeTransactions(txs, format)
	if err != nil {
		return nil, err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bucket := s.config.S3Bucket
	key := exportKey(userID, format, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	validity := s.config.ExportLinkValidityDuration
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Info(ctx, "ledger exported", "user_id", userID, "key", key, "transactions", len(txs))
	return &Export{
		Key:              key,
		Format:           format,
		TransactionCount: len(txs),
		URL:              req.URL,
		ExpiresAt:        now.Add(validity),
	}, nil
}

var csvHeader = []string{"id", "date", "transaction_type", "amount", "currency", "category", "description"}

func encodeTransactions(txs []models.Transaction, format string) ([]byte, error) {
	if format == FormatJSON {
		if txs == nil {
			txs = []models.Transaction{}
		}
		return json.Marshal(txs)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range txs {
		if err := w.Write([]string{
			t.ID,
			t.Date.UTC().Format(time.RFC3339),
			string(t.Type),
			t.Amount.String(),
			t.Currency,
			t.Category,
			t.Description,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
