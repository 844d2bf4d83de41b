package bookstore

import "github.com/varshinivarma16/booksbackend/internal/resource"

// Conditions a listed book can be sold in.
const (
	ConditionNew = "NEW - ORIGINAL PRICE"
	ConditionOld = "OLD - 35% OFF"
)

// FallbackCategories are accepted by content pages when no homepage
// category exists yet.
var FallbackCategories = []string{"school-books", "college-books", "professional-books", "other"}

var homeCategorySchema = &resource.Schema{
	Collection: "bookcategories",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true, Message: "Category name is required"},
		{Name: "books", Kind: resource.KindArray, Elem: resource.KindObjectID, Default: []interface{}{}},
	},
}

var bookSchema = &resource.Schema{
	Collection: "books",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "bookName", Kind: resource.KindString},
		{Name: "categoryName", Kind: resource.KindString},
		{Name: "title", Kind: resource.KindString, Required: true},
		{Name: "price", Kind: resource.KindNumber, Required: true, Rules: "gt=0"},
		{Name: "imageUrl", Kind: resource.KindString, Required: true},
		{Name: "subCategory", Kind: resource.KindString, Required: true},
		{Name: "description", Kind: resource.KindString, Required: true},
		{Name: "viewCount", Kind: resource.KindNumber, Required: true, Rules: "min=0",
			Message: "viewCount must be a non-negative number for each book"},
		{Name: "estimatedDelivery", Kind: resource.KindString, Required: true},
		{Name: "tags", Kind: resource.KindArray, Elem: resource.KindString, Required: true},
		{Name: "condition", Kind: resource.KindString, Required: true,
			Rules:   "oneof='" + ConditionNew + "' '" + ConditionOld + "'",
			Message: `Condition must be "NEW - ORIGINAL PRICE" or "OLD - 35% OFF" for each book`},
		{Name: "productCategory", Kind: resource.KindString},
		{Name: "author", Kind: resource.KindString},
		{Name: "publisher", Kind: resource.KindString},
		{Name: "isbn", Kind: resource.KindString},
	},
}

// bookSummary is what a category page lists for each book.
var bookSummary = resource.Include("title", "price", "imageUrl", "bookName", "viewCount", "subCategory")

var contentSchema = &resource.Schema{
	Collection: "contentbooks",
	Fields: []resource.Field{
		{Name: "title", Kind: resource.KindString, Required: true},
		{Name: "content", Kind: resource.KindString, Required: true},
		{Name: "category", Kind: resource.KindString, Required: true},
		{Name: "tags", Kind: resource.KindArray, Elem: resource.KindString, Default: []interface{}{}},
		{Name: "seoTitle", Kind: resource.KindString, Required: true},
		{Name: "seoDescription", Kind: resource.KindString, Required: true},
	},
}

var seoCategorySchema = &resource.Schema{
	Collection: "bookscategories",
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "category", Kind: resource.KindString, Required: true},
		{Name: "seoTitle", Kind: resource.KindString, Required: true},
		{Name: "seoDescription", Kind: resource.KindString, Required: true},
	},
}

var requestSchema = &resource.Schema{
	Collection: "bookrequests",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "email", Kind: resource.KindString, Required: true, Rules: "email"},
		{Name: "mobile", Kind: resource.KindString, Required: true},
		{Name: "bookTitle", Kind: resource.KindString, Required: true},
		{Name: "publisher", Kind: resource.KindString, Required: true},
		{Name: "author", Kind: resource.KindString, Required: true},
		{Name: "classLevel", Kind: resource.KindString, Required: true},
		{Name: "message", Kind: resource.KindString, Required: true},
	},
}

var reviewSchema = &resource.Schema{
	Collection: "booksreviews",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "email", Kind: resource.KindString, Required: true},
		{Name: "rating", Kind: resource.KindNumber, Required: true, Rules: "min=1,max=5", Message: "Rating must be between 1 and 5"},
		{Name: "review", Kind: resource.KindString, Required: true},
	},
}
