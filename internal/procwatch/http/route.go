package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sjzar/procwatch/internal/errors"
	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
)

const Greeting = "Hello from procwatch HTTP server!"

func (s *Service) initRouter() {
	s.router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.GET("/processes", s.checkStateMiddleware(), s.handleProcesses)

	s.router.NoRoute(s.NoRoute)
}

// handleProcesses 返回当前投影，顺序与界面一致
func (s *Service) handleProcesses(c *gin.Context) {
	var list []proc.Record
	if err := s.store.View(func(st *state.State) {
		list = st.Processes()
	}); err != nil {
		errors.Err(c, errors.StatePoisoned(err))
		return
	}
	if list == nil {
		list = []proc.Record{}
	}
	c.JSON(http.StatusOK, list)
}

// NoRoute answers every unknown path with a plain greeting.
func (s *Service) NoRoute(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}
