package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSamplePromos creates sample promo catalogue files for testing the
// import tool. Later files override earlier ones for the same code:
// File 1: WELCOME10, SUMMER20, LISBON5, SPRING15
// File 2: SUMMER20 (raises its cap), FAMILY50, EARLYBIRD
func main() {
	dataDir := "data/promos"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	catalogues := []struct {
		filename string
		entries  []map[string]any
	}{
		{
			filename: "promobase1.jsonl.gz",
			entries: []map[string]any{
				{"code": "WELCOME10", "discount_type": "fixed", "discount_value": "10.00", "min_purchase": "40.00"},
				{"code": "SUMMER20", "discount_type": "percentage", "discount_value": "20", "max_discount": "30.00",
					"valid_from": "2026-06-01T00:00:00Z", "valid_until": "2026-09-01T00:00:00Z"},
				{"code": "LISBON5", "discount_type": "fixed", "discount_value": "5.00", "applicable_tours": []int{1, 2}},
				{"code": "SPRING15", "discount_type": "percentage", "discount_value": "15", "is_active": false},
			},
		},
		{
			filename: "promobase2.jsonl.gz",
			entries: []map[string]any{
				{"code": "SUMMER20", "discount_type": "percentage", "discount_value": "20", "max_discount": "50.00",
					"valid_from": "2026-06-01T00:00:00Z", "valid_until": "2026-09-01T00:00:00Z"},
				{"code": "FAMILY50", "discount_type": "fixed", "discount_value": "50.00", "min_purchase": "200.00", "usage_limit": 100},
				{"code": "EARLYBIRD", "discount_type": "percentage", "discount_value": "10", "usage_limit": 25},
			},
		},
	}

	for _, c := range catalogues {
		filePath := filepath.Join(dataDir, c.filename)

		if err := createCatalogueFile(filePath, c.entries); err != nil {
			log.Fatalf("Failed to create %s: %v", c.filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(c.entries))
	}

	fmt.Println("\nSample promo catalogues created successfully!")
	fmt.Println("\nImport them with:")
	fmt.Println("  go run ./cmd/promoimport data/promos/promobase1.jsonl.gz data/promos/promobase2.jsonl.gz")
}

func createCatalogueFile(filePath string, entries []map[string]any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("failed to write promo code: %w", err)
		}
	}

	return nil
}
