package stocks

import "github.com/varshinivarma16/booksbackend/internal/resource"

// quoteFields is the document shape shared by every market list. Nested
// blocks are stored as submitted.
func quoteFields(required ...string) []resource.Field {
	fields := []resource.Field{
		{Name: "name", Kind: resource.KindString},
		{Name: "price", Kind: resource.KindString},
		{Name: "change", Kind: resource.KindString},
		{Name: "image", Kind: resource.KindString},
		{Name: "icon", Kind: resource.KindString},
		{Name: "volume", Kind: resource.KindString},
		{Name: "priceHistory", Kind: resource.KindArray, Elem: resource.KindObject},
		{Name: "details", Kind: resource.KindObject},
		{Name: "marketDepth", Kind: resource.KindObject},
		{Name: "fundamentals", Kind: resource.KindObject},
		{Name: "financials", Kind: resource.KindObject},
		{Name: "about", Kind: resource.KindObject},
	}
	for i := range fields {
		for _, r := range required {
			if fields[i].Name == r {
				fields[i].Required = true
			}
		}
	}
	return fields
}

func quoteSchema(collection string, required ...string) *resource.Schema {
	return &resource.Schema{Collection: collection, Fields: quoteFields(required...)}
}

var headline = []string{"name", "price", "change", "image"}

func fundSchema() *resource.Schema {
	s := quoteSchema("growwfunds", "name")
	s.Fields = append(s.Fields,
		resource.Field{Name: "date", Kind: resource.KindString},
		resource.Field{Name: "tag", Kind: resource.KindString},
		resource.Field{Name: "badge", Kind: resource.KindBool},
		resource.Field{Name: "return", Kind: resource.KindString},
		resource.Field{Name: "age", Kind: resource.KindString},
	)
	return s
}

// Categories accepted by the gainers and losers lists.
var Categories = []string{"large", "mid", "small"}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func categorizedSchema(collection string) *resource.Schema {
	s := quoteSchema(collection, headline...)
	s.Fields = append(s.Fields,
		resource.Field{Name: "category", Kind: resource.KindString, Required: true, Rules: "oneof=large mid small"},
		resource.Field{Name: "categoryId", Kind: resource.KindString},
	)
	return s
}

var toolSchema = &resource.Schema{
	Collection: "producttools",
	Loose:      true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "icon", Kind: resource.KindString, Required: true},
	},
}

var sectorSchema = &resource.Schema{
	Collection: "topsectors",
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "count", Kind: resource.KindNumber, Required: true, Rules: "min=0"},
	},
}
