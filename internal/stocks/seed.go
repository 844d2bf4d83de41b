package stocks

import (
	"context"
	"fmt"

	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

func sampleQuote(name, price, change, symbol string) resource.Document {
	return resource.Document{
		"name":   name,
		"price":  price,
		"change": change,
		"image":  "https://example.com/images/" + symbol + ".png",
		"icon":   "https://example.com/icons/" + symbol + ".svg",
		"volume": "3200000",
		"priceHistory": []interface{}{
			map[string]interface{}{"date": "2025-07-02", "price": 4050.50},
			map[string]interface{}{"date": "2025-07-01", "price": 4000.75},
		},
		"details": map[string]interface{}{
			"performance": map[string]interface{}{
				"todaysLow": "4000.00", "todaysHigh": "4120.00", "open": "4020.00", "prevClose": "3905.50",
			},
			"events": []interface{}{"Q1 Results Announcement"},
			"news":   []interface{}{},
		},
		"fundamentals": map[string]interface{}{"marketCap": "15.2T", "peRatioTTM": 31.5, "roe": 45.2},
		"about": map[string]interface{}{
			"description": name + " is a listed company.",
			"nseSymbol":   symbol,
		},
	}
}

func samples() []resource.Document {
	return []resource.Document{
		sampleQuote("Tata Consultancy Services", "4100.25", "+4.75", "TCS"),
		sampleQuote("Infosys", "1650.10", "+1.20", "INFY"),
		sampleQuote("Reliance Industries", "2950.00", "-0.85", "RELIANCE"),
	}
}

// Seed fills empty market lists with sample quotes. Collections that already
// hold data are left alone.
func Seed(ctx context.Context, backend repository.Backend) error {
	for _, l := range lists() {
		if l.schema == toolSchema {
			continue
		}
		docs := samples()
		if l.schema.Collection == "growwfunds" {
			for _, d := range docs {
				d["tag"], d["return"], d["badge"] = "Equity", "18.2%", true
			}
		}
		if err := seedCollection(ctx, service.New(l.schema, backend), docs); err != nil {
			return err
		}
	}
	for _, col := range []string{"topgainers", "toplosers"} {
		docs := samples()
		for i, d := range docs {
			d["category"] = Categories[i%len(Categories)]
		}
		if err := seedCollection(ctx, service.New(categorizedSchema(col), backend), docs); err != nil {
			return err
		}
	}
	tools := []resource.Document{
		{"name": "IPO", "icon": "https://example.com/icons/ipo.svg"},
		{"name": "Screener", "icon": "https://example.com/icons/screener.svg"},
	}
	if err := seedCollection(ctx, service.New(toolSchema, backend), tools); err != nil {
		return err
	}
	sectors := []resource.Document{{"name": "Pharmaceuticals", "count": 15}, {"name": "Automobile", "count": 12}}
	return seedCollection(ctx, service.New(sectorSchema, backend), sectors)
}

func seedCollection(ctx context.Context, svc *service.Service, docs []resource.Document) error {
	n, err := svc.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count %s: %w", svc.Schema().Collection, err)
	}
	if n > 0 {
		logger.Debugf("%s already contains data, skipping sample data", svc.Schema().Collection)
		return nil
	}
	if _, err := svc.CreateMany(ctx, docs); err != nil {
		return fmt.Errorf("seed %s: %w", svc.Schema().Collection, err)
	}
	logger.Infof("sample data inserted for %s", svc.Schema().Collection)
	return nil
}
