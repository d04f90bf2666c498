package server

import (
	"math/rand"
	"net/http"
	"time"

	"trivia-rush/internal/config"

	"github.com/gin-gonic/gin"
)

type Server struct {
	store *Store
	cfg   config.Config
	hub   *lobbyHub

	// rng backs every gameplay roll. Every roll runs with the store
	// mutex held, so access is serialized.
	rng *rand.Rand
}

func New(cfg config.Config) *Server {
	return &Server{
		store: NewStore(),
		cfg:   cfg,
		hub:   newLobbyHub(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/games", s.handleCreateGame)
	api.GET("/games/:code", s.handleLobbyView)
	api.DELETE("/games/:code", s.handleDeleteGame)
	api.POST("/games/:code/join", s.handleJoin)
	api.POST("/games/:code/start", s.handleStart)
	api.POST("/games/:code/end", s.handleEnd)
	api.POST("/games/:code/settings", s.handleSettings)
	api.POST("/games/:code/kick", s.handleKick)
	api.POST("/games/:code/skin", s.handleSkin)
	api.GET("/games/:code/players/:player_id", s.handlePlayerView)
	api.POST("/games/:code/answer", s.handleAnswer)
	api.POST("/games/:code/chest/choose", s.handleChestChoose)
	api.POST("/games/:code/chest/target", s.handleChestTarget)
	api.POST("/games/:code/chest/skip", s.handleChestSkip)
	api.POST("/games/:code/chest/next", s.handleChestNext)
	api.POST("/games/:code/fishing/cast", s.handleFishingCast)
	api.POST("/games/:code/fishing/pull", s.handleFishingPull)
	api.POST("/games/:code/fishing/next", s.handleFishingNext)

	router.GET("/ws/games/:code", s.handleLobbySocket)
	return router
}

// randRange draws a uniform integer in [min, max].
func (s *Server) randRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

func (s *Server) chance(probability float64) bool {
	return probability > 0 && s.rng.Float64() < probability
}
