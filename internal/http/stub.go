package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"dashboard/internal/repository"
)

// stubCollection коллекция демо-API: начальные данные и ответ на добавление
type stubCollection struct {
	name    string
	seed    []repository.Document
	created string
}

var stubCollections = []stubCollection{
	{
		name: repository.Categories,
		seed: []repository.Document{
			{"name": "صنف 1"},
			{"name": "صنف 2"},
		},
		created: "تم إضافة الصنف بنجاح",
	},
	{
		name: repository.Orders,
		seed: []repository.Document{
			{"customer": "عميل 1", "total": 100},
			{"customer": "عميل 2", "total": 200},
		},
		created: "تم إضافة الطلب بنجاح",
	},
	{
		name: repository.Products,
		seed: []repository.Document{
			{"name": "منتج 1", "price": 50},
			{"name": "منتج 2", "price": 150},
		},
		created: "تم إضافة المنتج بنجاح",
	},
}

// stub демо-API без авторизации поверх собственного in-memory хранилища.
// Данные не связаны с основным хранилищем и теряются при перезапуске.
type stub struct {
	mu    sync.Mutex
	store *repository.MemoryStore
}

func newStub() *stub {
	st := &stub{store: repository.NewMemoryStore()}
	ctx := context.Background()
	for _, coll := range stubCollections {
		for i, d := range coll.seed {
			_ = st.store.Insert(ctx, coll.name, strconv.Itoa(i+1), d)
		}
	}
	return st
}

func registerStub(api *gin.RouterGroup) {
	st := newStub()
	for _, coll := range stubCollections {
		api.GET("/"+coll.name, st.list(coll.name))
		api.POST("/"+coll.name, st.add(coll.name, coll.created))
	}
}

func (st *stub) list(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := st.store.List(c.Request.Context(), collection)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

// add сохраняет тело запроса под ключом len(collection)+1
func (st *stub) add(collection, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body repository.Document
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		st.mu.Lock()
		defer st.mu.Unlock()
		key := strconv.Itoa(st.store.Len(collection) + 1)
		if err := st.store.Insert(c.Request.Context(), collection, key, body); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": message})
	}
}
