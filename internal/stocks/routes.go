package stocks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/varshinivarma16/booksbackend/internal/resource"
	"github.com/varshinivarma16/booksbackend/internal/resource/handler"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/resource/service"
)

type list struct {
	path        string
	schema      *resource.Schema
	opts        handler.Options
	patchByName bool
}

func lists() []list {
	listed := resource.Include(headline...)
	detail := resource.Exclude(headline...)
	fno := resource.Include("name", "price", "change", "icon", "volume")
	stock := func(p resource.Projection) handler.Options {
		return handler.Options{ListProjection: listed, DetailProjection: p, Label: "Stock"}
	}
	return []list{
		{path: "/topindex", schema: quoteSchema("topindexfutures", headline...), opts: stock(detail)},
		{path: "/top-stocks", schema: quoteSchema("topstockfutures", headline...), opts: stock(detail)},
		{path: "/popularfunds", schema: quoteSchema("popularfunds", headline...), opts: stock(detail)},
		{path: "/toptraded", schema: quoteSchema("toptraded", headline...), opts: stock(detail)},
		{path: "/index", schema: quoteSchema("indices", "name"), opts: stock(detail)},
		{path: "/growfund", schema: fundSchema(), opts: handler.Options{
			ListProjection: resource.Include("name", "return", "tag", "badge"),
			Label:          "Fund",
		}},
		{path: "/fnoloosers", schema: quoteSchema("fnoloosers", "name", "icon", "price", "change", "volume"),
			opts: handler.Options{ListProjection: fno, Label: "Stock"}, patchByName: true},
		{path: "/fno", schema: quoteSchema("fostocks", "name", "icon", "price", "change", "volume"),
			opts: handler.Options{ListProjection: fno, DetailProjection: detail, Label: "Stock"}, patchByName: true},
		{path: "/mosttradedongrow", schema: quoteSchema("mosttradedongrow", headline...), opts: stock(detail)},
		{path: "/tools", schema: toolSchema, opts: handler.Options{Label: "Tool"}},
		{path: "/stocks-in-news", schema: quoteSchema("stocksinnews", headline...), opts: stock(detail)},
		{path: "/mtf", schema: quoteSchema("mtfstocks", headline...), opts: stock(detail)},
		{path: "/topmarket", schema: quoteSchema("topmarkets", headline...), opts: stock(detail), patchByName: true},
	}
}

// Register mounts every market list under rg (normally /api/stocks).
func Register(rg *gin.RouterGroup, backend repository.Backend) {
	for _, l := range lists() {
		svc := service.New(l.schema, backend)
		handler.RegisterCRUD(rg, l.path, svc, l.opts)
		if l.patchByName {
			rg.PATCH(l.path+"/:name", handler.UpdateBy(svc, "name", l.opts))
		}
	}

	registerCategorized(rg, "/topgainers", service.New(categorizedSchema("topgainers"), backend))
	registerCategorized(rg, "/toplosers", service.New(categorizedSchema("toplosers"), backend))

	sectors := service.New(sectorSchema, backend)
	opts := handler.Options{Label: "Sector"}
	rg.POST("/addtopsectors", handler.Create(sectors, opts))
	rg.GET("/gettopsectors", handler.List(sectors, opts))
	rg.PUT("/updatetopsectors/:id", handler.Update(sectors, opts))
	rg.DELETE("/deletetopsectors/:id", handler.Delete(sectors, opts))
}

// registerCategorized serves the gainers and losers lists, which are browsed by
// market-cap category.
func registerCategorized(rg *gin.RouterGroup, path string, svc *service.Service) {
	opts := handler.Options{Label: "Stock"}
	listed := resource.Include(headline...)

	rg.POST(path, handler.Create(svc, opts))

	rg.GET(path, func(c *gin.Context) {
		all, err := svc.List(c.Request.Context(), nil, resource.FindOptions{Projection: resource.Include("name", "price", "change", "image", "category")})
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		grouped := gin.H{}
		for _, cat := range Categories {
			grouped[cat] = []resource.Document{}
		}
		for _, d := range all {
			cat := resource.String(d, "category")
			delete(d, "category")
			if group, ok := grouped[cat].([]resource.Document); ok {
				grouped[cat] = append(group, d)
			}
		}
		c.JSON(http.StatusOK, grouped)
	})

	rg.GET(path+"/:category", func(c *gin.Context) {
		category := c.Param("category")
		if !validCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		found, err := svc.List(c.Request.Context(), resource.Document{"category": category}, resource.FindOptions{Projection: listed})
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		if len(found) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No stocks found in this category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "stocks": found})
	})

	rg.GET(path+"/:category/:id", func(c *gin.Context) {
		category := c.Param("category")
		if !validCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		oid, err := resource.ParseID(c.Param("id"))
		if err != nil {
			handler.WriteError(c, err)
			return
		}
		d, err := svc.FindOne(c.Request.Context(), resource.Document{"_id": oid, "category": category}, resource.Exclude(headline...))
		if err != nil {
			handler.WriteNotFound(c, err, "Stock not found in this category")
			return
		}
		c.JSON(http.StatusOK, d)
	})

	rg.PUT(path+"/:id", handler.Update(svc, opts))
	rg.DELETE(path+"/:id", handler.Delete(svc, opts))
}
