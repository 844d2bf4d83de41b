package education

import "github.com/varshinivarma16/booksbackend/internal/resource"

var (
	DocumentTypes  = []string{"ID Card", "Photo", "Aadhar", "Results", "Other Proof"}
	FileFormats    = []string{"pdf", "jpg", "png"}
	ExamStatuses   = []string{"scheduled", "active", "completed", "paused"}
	TicketStatuses = []string{"open", "in-progress", "resolved", "closed"}
	Senders        = []string{"student", "admin"}
)

var scheduleSchema = &resource.Schema{
	Collection: "schedules",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "days", Kind: resource.KindArray, Elem: resource.KindString, Required: true, Rules: "min=1", Message: "Days must be a non-empty array"},
		{Name: "subject", Kind: resource.KindString, Required: true},
		{Name: "startTime", Kind: resource.KindString, Required: true},
		{Name: "endTime", Kind: resource.KindString, Required: true},
		{Name: "faculty", Kind: resource.KindString, Required: true},
	},
}

var documentSchema = &resource.Schema{
	Collection: "documents",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "studentId", Kind: resource.KindString, Required: true},
		{Name: "documentType", Kind: resource.KindString, Required: true, Rules: "oneof='ID Card' Photo Aadhar Results 'Other Proof'"},
		{Name: "fileUrl", Kind: resource.KindString, Required: true},
		{Name: "fileFormat", Kind: resource.KindString, Required: true, Rules: "oneof=pdf jpg png"},
		// fileKey is set when the file itself is uploaded to object storage.
		{Name: "fileKey", Kind: resource.KindString},
	},
}

var examSchema = &resource.Schema{
	Collection: "exams",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "title", Kind: resource.KindString, Required: true},
		{Name: "subject", Kind: resource.KindString, Required: true},
		{Name: "duration", Kind: resource.KindNumber, Required: true, Rules: "min=1"},
		{Name: "totalQuestions", Kind: resource.KindNumber, Required: true, Rules: "min=1"},
		{Name: "scheduledDate", Kind: resource.KindString, Required: true},
		{Name: "scheduledTime", Kind: resource.KindString, Required: true},
		{Name: "status", Kind: resource.KindString, Default: "scheduled", Rules: "oneof=scheduled active completed paused"},
		{Name: "studentsEnrolled", Kind: resource.KindNumber, Default: 0.0},
		{Name: "studentsCompleted", Kind: resource.KindNumber, Default: 0.0},
		{Name: "resultsVisible", Kind: resource.KindBool, Default: false},
		{Name: "autoShowResults", Kind: resource.KindBool, Default: false},
		{Name: "resultVisibilityTime", Kind: resource.KindString},
		{Name: "passingMarks", Kind: resource.KindNumber, Required: true, Rules: "min=0"},
		{Name: "questions", Kind: resource.KindArray, Elem: resource.KindObjectID, Default: []interface{}{}},
	},
}

var questionSchema = &resource.Schema{
	Collection: "questions",
	Fields: []resource.Field{
		{Name: "questionText", Kind: resource.KindString, Required: true},
		{Name: "options", Kind: resource.KindArray, Elem: resource.KindString, Required: true},
		{Name: "correctAnswer", Kind: resource.KindString, Required: true},
		{Name: "marks", Kind: resource.KindNumber, Required: true, Rules: "min=1"},
	},
}

var ticketSchema = &resource.Schema{
	Collection: "tickets",
	Timestamps: true,
	Fields: []resource.Field{
		{Name: "title", Kind: resource.KindString, Required: true, Message: "Title is required"},
		{Name: "description", Kind: resource.KindString, Required: true, Message: "Description is required"},
		{Name: "student", Kind: resource.KindObject, Required: true, Message: "Student details are required"},
		{Name: "category", Kind: resource.KindString, Required: true, Rules: "oneof=Technical Academic Administrative Financial"},
		{Name: "priority", Kind: resource.KindString, Default: "medium", Rules: "oneof=low medium high urgent"},
		{Name: "status", Kind: resource.KindString, Default: "open", Rules: "oneof=open in-progress resolved closed"},
		{Name: "assignedTo", Kind: resource.KindString},
		{Name: "responses", Kind: resource.KindArray, Elem: resource.KindObject, Default: []interface{}{}},
	},
}

// studentFields are required inside a ticket's student object.
var studentFields = []struct{ key, label string }{
	{"name", "Student name"},
	{"email", "Student email"},
	{"id", "Student ID"},
	{"course", "Course"},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
