package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mentormatch-service/internal/config"
)

func Run(router *gin.Engine, cfg config.ServerConfig) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
