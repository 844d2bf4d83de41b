package clothing

import "github.com/varshinivarma16/booksbackend/internal/resource"

// Genders a category or dress belongs to.
var Genders = []string{"men", "women"}

var categorySchema = &resource.Schema{
	Collection: "clothingcategories",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "gender", Kind: resource.KindString, Required: true, Rules: "oneof=men women", Message: "Gender must be either men or women"},
		{Name: "dresses", Kind: resource.KindArray, Elem: resource.KindObjectID, Default: []interface{}{}},
	},
}

const dressRequired = "All fields (name, image, price, colors, about, gender, productCategory) are required for each dress"

var dressSchema = &resource.Schema{
	Collection: "dresses",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true, Message: dressRequired},
		{Name: "image", Kind: resource.KindString, Required: true, Message: dressRequired},
		{Name: "price", Kind: resource.KindNumber, Required: true, Rules: "gt=0"},
		{Name: "colors", Kind: resource.KindArray, Elem: resource.KindString, Required: true, Message: dressRequired},
		{Name: "about", Kind: resource.KindString, Required: true, Message: dressRequired},
		{Name: "gender", Kind: resource.KindString, Required: true, Rules: "oneof=men women", Message: "Gender must be either men or women for each dress"},
		{Name: "isCommon", Kind: resource.KindBool, Default: false},
		{Name: "productCategory", Kind: resource.KindString, Required: true, Message: dressRequired},
	},
}

var detailsSchema = &resource.Schema{
	Collection: "dressdetails",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "dressId", Kind: resource.KindObjectID, Required: true},
		{Name: "fit", Kind: resource.KindString},
		{Name: "materials", Kind: resource.KindString},
		{Name: "care", Kind: resource.KindString},
		{Name: "details", Kind: resource.KindString},
		{Name: "reviews", Kind: resource.KindString},
		{Name: "mainImages", Kind: resource.KindArray, Elem: resource.KindString, Default: []interface{}{}},
		{Name: "sizeOptions", Kind: resource.KindArray, Elem: resource.KindString, Default: []interface{}{}},
		{Name: "modelInfo", Kind: resource.KindString},
		{Name: "priceCurrency", Kind: resource.KindString},
	},
}

// detailFields are the dress payload keys stored on the details record.
var detailFields = []string{"fit", "materials", "care", "details", "reviews", "mainImages", "sizeOptions", "modelInfo", "priceCurrency"}
