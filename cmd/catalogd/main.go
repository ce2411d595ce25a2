// catalogd serves a product feed from an XLSX workbook. It exists for local
// development, where no real feed is available: point CATALOG_SOURCE_URL at
// this process and edit the workbook to change the catalog.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/catalogd/main.go <xlsx_file_path> [port]")
	}

	filePath := os.Args[1]
	port := "8090"
	if len(os.Args) > 2 {
		port = os.Args[2]
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Serving %d products\n", len(products))

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, products)
	})

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Feed listening on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start feed server:", err)
	}
}

// Expected columns: id, name, price, category, image, stock, rating.
// The first row is treated as a header.
func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	products := make([]model.Product, 0, len(rows)-1)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 6 {
			skippedCount++
			continue
		}

		id := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		category := strings.TrimSpace(row[3])
		image := strings.TrimSpace(row[4])
		stockStr := strings.TrimSpace(row[5])

		if id == "" || name == "" || category == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			skippedCount++
			continue
		}
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			skippedCount++
			continue
		}

		rating := 0.0
		if len(row) > 6 {
			if r, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64); err == nil {
				rating = r
			}
		}

		products = append(products, model.Product{
			ID:       id,
			Name:     name,
			Price:    price,
			Category: category,
			Image:    image,
			Stock:    stock,
			Rating:   rating,
		})
	}

	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}
