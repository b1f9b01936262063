// Package seed imports demo sales from a CSV file.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesdesk/m/domain"
	"salesdesk/m/internal/sales"
)

// Creator registers a sale.
type Creator interface {
	Create(ctx context.Context, cmd sales.CreateSaleCommand) (*domain.Sale, error)
}

// LoadSales reads csvPath and creates one sale per run of rows sharing the
// same reference. Columns: ref, customer_id, branch_id, product_id, quantity,
// unit_price. The first line is a header. A sale that fails validation is
// logged and skipped. It returns the number of sales created.
func LoadSales(ctx context.Context, svc Creator, csvPath string, logger *zap.Logger) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open sales seed %s: %w", csvPath, err)
	}
	defer file.Close()

	return loadSales(ctx, svc, file, logger)
}

func loadSales(ctx context.Context, svc Creator, r io.Reader, logger *zap.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read sales seed header: %w", err)
	}

	var (
		created int
		ref     string
		cmd     sales.CreateSaleCommand
	)
	flush := func() {
		if len(cmd.Items) == 0 {
			return
		}
		if _, err := svc.Create(ctx, cmd); err != nil {
			logger.Warn("skipping seed sale", zap.String("ref", ref), zap.Error(err))
		} else {
			created++
		}
		cmd = sales.CreateSaleCommand{}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, fmt.Errorf("read sales seed line %d: %w", line, err)
		}

		row, err := parseRow(record)
		if err != nil {
			logger.Warn("skipping seed row", zap.Int("line", line), zap.Error(err))
			continue
		}

		if row.ref != ref {
			flush()
			ref = row.ref
			cmd.CustomerID = row.customerID
			cmd.BranchID = row.branchID
		}
		cmd.Items = append(cmd.Items, row.item)
	}
	flush()

	logger.Info("seeded sales", zap.Int("count", created))
	return created, nil
}

type seedRow struct {
	ref        string
	customerID int64
	branchID   int64
	item       sales.ItemInput
}

func parseRow(record []string) (seedRow, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	var (
		row seedRow
		err error
	)
	row.ref = record[0]
	if row.customerID, err = strconv.ParseInt(record[1], 10, 64); err != nil {
		return row, fmt.Errorf("customer_id: %w", err)
	}
	if row.branchID, err = strconv.ParseInt(record[2], 10, 64); err != nil {
		return row, fmt.Errorf("branch_id: %w", err)
	}
	if row.item.ProductID, err = strconv.ParseInt(record[3], 10, 64); err != nil {
		return row, fmt.Errorf("product_id: %w", err)
	}
	if row.item.Quantity, err = strconv.Atoi(record[4]); err != nil {
		return row, fmt.Errorf("quantity: %w", err)
	}
	if row.item.UnitPrice, err = decimal.NewFromString(record[5]); err != nil {
		return row, fmt.Errorf("unit_price: %w", err)
	}
	return row, nil
}
