package clickhouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
)

// Client reads published Parquet datasets through ClickHouse's url() table
// function, so the service never downloads whole files itself.
type Client struct {
	conn    driver.Conn
	baseURL string
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	// BaseURL is the dataset hub that Ref.URL resolves against.
	BaseURL string
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Logger: logger,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &Client{conn: conn, baseURL: cfg.BaseURL}, nil
}

// Reports implements dataset.Source for Parquet files.
func (c *Client) Reports(ctx context.Context, ref dataset.Ref) ([]dataset.Report, error) {
	if ext := ref.Ext(); ext != dataset.FormatParquet {
		return nil, fmt.Errorf("%w: clickhouse reads parquet, got %q", dataset.ErrUnsupportedFormat, ext)
	}

	rows, err := c.conn.Query(
		ctx,
		`
		SELECT
			toInt64(year),
			ifNull(toString(alcaldia), ''),
			ifNull(toString(colonia), ''),
			toFloat64(longitude),
			toFloat64(latitude),
			toFloat64(ifNull(reports, 1))
		FROM url(@url, 'Parquet')
		WHERE isNotNull(year) AND isNotNull(longitude) AND isNotNull(latitude)
		`,
		clickhouse.Named("url", ref.URL(c.baseURL)),
	)
	if err != nil {
		return nil, fmt.Errorf("query dataset %s: %w", ref, err)
	}
	defer rows.Close()

	var reports []dataset.Report
	for rows.Next() {
		var (
			r    dataset.Report
			year int64
		)
		if err := rows.Scan(&year, &r.Alcaldia, &r.Colonia, &r.Longitude, &r.Latitude, &r.Reports); err != nil {
			return nil, fmt.Errorf("scan dataset %s: %w", ref, err)
		}
		r.Year = int(year)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", ref, err)
	}

	slog.DebugContext(ctx, "dataset loaded from clickhouse", "dataset", ref.Key(), "rows", len(reports))
	return reports, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
