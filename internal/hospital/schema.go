package hospital

import (
	"strings"

	"github.com/varshinivarma16/booksbackend/internal/resource"
)

// LabExcludedLetters never start a lab name.
var LabExcludedLetters = []string{"J", "Q", "U", "W", "X", "Y"}

// DiseaseLetters are the index entries diseases are filed under: A-Z plus '#'.
var DiseaseLetters = append(resource.Letters(), "#")

const privacyMessage = "You must agree to the privacy policy"

func reviewFields(subject ...resource.Field) []resource.Field {
	return append(subject,
		resource.Field{Name: "review", Kind: resource.KindString, Required: true, Rules: "max=500"},
		resource.Field{Name: "rating", Kind: resource.KindNumber, Required: true, Rules: "min=1,max=5", Message: "Rating must be between 1 and 5"},
		resource.Field{Name: "privacyAgreed", Kind: resource.KindBool, Required: true, Rules: "eq=true", Message: privacyMessage},
	)
}

var reviewSchema = &resource.Schema{
	Collection: "reviews",
	Timestamps: true,
	Fields: reviewFields(
		resource.Field{Name: "nameOrInitials", Kind: resource.KindString, Required: true},
		resource.Field{Name: "department", Kind: resource.KindString, Required: true},
	),
}

var doctorReviewSchema = &resource.Schema{
	Collection: "doctorreviews",
	Timestamps: true,
	Fields: reviewFields(
		resource.Field{Name: "doctor", Kind: resource.KindString, Required: true},
	),
}

var testSchema = &resource.Schema{
	Collection: "tests",
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "link", Kind: resource.KindString},
		{Name: "seeAlso", Kind: resource.KindString},
		{Name: "firstLetter", Kind: resource.KindString, Required: true, Rules: "len=1"},
	},
}

var symptomSchema = &resource.Schema{
	Collection: "symptoms",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "description", Kind: resource.KindString, Default: ""},
	},
}

var doctorSchema = &resource.Schema{
	Collection: "doctors",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "specialist", Kind: resource.KindString, Required: true},
		{Name: "location", Kind: resource.KindString, Required: true},
		{Name: "photo", Kind: resource.KindString, Required: true},
		{Name: "qualifications", Kind: resource.KindArray, Elem: resource.KindString, Default: []interface{}{}},
		{Name: "experience", Kind: resource.KindString, Default: ""},
		{Name: "contact", Kind: resource.KindObject, Default: resource.Document{"email": "", "phone": ""}},
		{Name: "bio", Kind: resource.KindString, Default: ""},
	},
}

// doctorCard is the listing view of a doctor.
var doctorCard = resource.Include("photo", "name", "specialist", "location")

var eventSchema = &resource.Schema{
	Collection: "events",
	Fields: []resource.Field{
		{Name: "date", Kind: resource.KindString, Required: true},
		{Name: "time", Kind: resource.KindString, Required: true},
		{Name: "timezone", Kind: resource.KindString, Required: true},
		{Name: "title", Kind: resource.KindString, Required: true},
		{Name: "location", Kind: resource.KindString, Required: true},
		{Name: "format", Kind: resource.KindString, Required: true, Rules: "oneof=Virtual In-Person"},
	},
}

var jobSchema = &resource.Schema{
	Collection: "jobs",
	Fields: []resource.Field{
		{Name: "title", Kind: resource.KindString, Required: true},
		{Name: "location", Kind: resource.KindString, Required: true},
	},
}

var labSchema = &resource.Schema{
	Collection: "labs",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "researchArea", Kind: resource.KindString, Required: true},
		{Name: "researchers", Kind: resource.KindArray, Elem: resource.KindString, Required: true},
		{Name: "contact", Kind: resource.KindString, Required: true},
		{Name: "publications", Kind: resource.KindArray, Elem: resource.KindString, Required: true},
	},
}

var alphabetSchema = &resource.Schema{
	Collection: "alphabets",
	Fields: []resource.Field{
		{Name: "letter", Kind: resource.KindString, Required: true, Rules: "oneof=" + strings.Join(DiseaseLetters, " ")},
	},
}

var diseaseSchema = &resource.Schema{
	Collection: "diseases",
	Fields: []resource.Field{
		{Name: "alphabet", Kind: resource.KindObjectID, Required: true},
		{Name: "name", Kind: resource.KindString, Required: true},
		{Name: "see", Kind: resource.KindString},
	},
}
