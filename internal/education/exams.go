package education

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

// Exams lets faculty build exams question by question and control when
// answers become visible.
type Exams struct {
	exams     *service.Service
	questions *service.Service
}

// RegisterExams mounts exams under rg (normally /api/education).
func RegisterExams(rg *gin.RouterGroup, backend repository.Backend) {
	e := &Exams{
		exams:     service.New(examSchema, backend),
		questions: service.New(questionSchema, backend),
	}
	rg.POST("", e.create)
	rg.GET("", handler.List(e.exams, handler.Options{Sort: "createdAt", Desc: true}))
	rg.GET("/:examId", e.details)
	rg.POST("/:examId/questions", e.addQuestion)
	rg.PATCH("/:examId/status", e.updateStatus)
	rg.PATCH("/:examId/results", e.toggleResults)
	rg.DELETE("/:examId", e.remove)
}

func (e *Exams) create(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	body["questions"] = []interface{}{}
	exam, err := e.exams.Create(c.Request.Context(), body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Exam created successfully", "exam": exam})
}

func (e *Exams) addQuestion(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	exam, err := e.exams.Get(ctx, c.Param("examId"), resource.Include("_id"))
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	q, err := e.questions.Create(ctx, body)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	updated, err := e.exams.Push(ctx, resource.ID(exam), "questions", resource.ID(q))
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	total := len(resource.Slice(updated, "questions"))
	if _, err := e.exams.UpdateByID(ctx, resource.ID(exam), resource.Document{"totalQuestions": total}); err != nil {
		handler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Question added successfully", "question": q})
}

func (e *Exams) updateStatus(c *gin.Context) {
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if !contains(ExamStatuses, resource.String(body, "status")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	exam, err := e.exams.Update(c.Request.Context(), c.Param("examId"), resource.Document{"status": body["status"]})
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam status updated", "exam": exam})
}

// toggleResults publishes results now, or hides them with an optional time at
// which they should become visible.
func (e *Exams) toggleResults(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := handler.BindDocument(c)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	oid, err := resource.ParseID(c.Param("examId"))
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	visible := resource.Bool(body, "resultsVisible")
	set := resource.Document{"resultsVisible": visible}
	if visible {
		set["resultVisibilityTime"] = nil
	} else if t := resource.String(body, "resultVisibilityTime"); t != "" {
		set["resultVisibilityTime"] = t
	}
	n, err := e.exams.SetMany(ctx, resource.Document{"_id": oid}, set)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
		return
	}
	exam, err := e.exams.GetByID(ctx, oid, resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Result visibility updated", "exam": exam})
}

// details returns the exam with its questions. Correct answers stay hidden
// until results are visible.
func (e *Exams) details(c *gin.Context) {
	ctx := c.Request.Context()
	exam, err := e.exams.Get(ctx, c.Param("examId"), resource.Projection{})
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	proj := resource.Projection{}
	if !resource.Bool(exam, "resultsVisible") {
		proj = resource.Exclude("correctAnswer")
	}
	questions, err := e.populate(ctx, resource.Slice(exam, "questions"), proj)
	if err != nil {
		handler.WriteError(c, err)
		return
	}
	exam["questions"] = questions
	c.JSON(http.StatusOK, exam)
}

func (e *Exams) populate(ctx context.Context, ids []interface{}, proj resource.Projection) ([]resource.Document, error) {
	if len(ids) == 0 {
		return []resource.Document{}, nil
	}
	found, err := e.questions.List(ctx, resource.Document{"_id": resource.Document{"$in": ids}}, resource.FindOptions{Projection: proj})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]resource.Document, len(found))
	for _, q := range found {
		byID[resource.ID(q).Hex()] = q
	}
	out := make([]resource.Document, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[resource.ID(resource.Document{"_id": id}).Hex()]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (e *Exams) remove(c *gin.Context) {
	ctx := c.Request.Context()
	exam, err := e.exams.Delete(ctx, c.Param("examId"))
	if err != nil {
		handler.WriteNotFound(c, err, "Exam not found")
		return
	}
	if ids := resource.Slice(exam, "questions"); len(ids) > 0 {
		if _, err := e.questions.DeleteWhere(ctx, resource.Document{"_id": resource.Document{"$in": ids}}); err != nil {
			handler.WriteError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted successfully"})
}
