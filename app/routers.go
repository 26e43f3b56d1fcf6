package app

import (
	"LiveCTF/challenge"
	"LiveCTF/common"
	"LiveCTF/dao"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server 持有处理请求需要的所有依赖
type Server struct {
	cfg   *common.Config
	db    *dao.DB
	orch  *challenge.Orchestrator
	files *Uploader
}

func NewServer(cfg *common.Config, db *dao.DB, orch *challenge.Orchestrator, files *Uploader) *Server {
	return &Server{cfg: cfg, db: db, orch: orch, files: files}
}

//路由
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(s.cfg.SessionSecret)) //启用cookie和session
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   SESSION_EXPIRE, //3天的过期时间
		HttpOnly: true,
	})

	r.Use(requestLogger)
	r.Use(jsonResponse)
	r.Use(sessions.Sessions("ginSession", store))

	s.initUserRouters(r)
	s.initLiveRouters(r)
	s.initAdminRouters(r)
	return r
}

func (s *Server) Run() error {
	log.Info().Str("address", s.cfg.Address).Msg("listening")
	return s.Router().Run(s.cfg.Address)
}

//用户基础的路由
func (s *Server) initUserRouters(r *gin.Engine) {
	g0 := r.Group("/api") // 无需任何条件的请求
	{
		g0.GET("ping", ping)
		g0.POST("login", s.login)
		g0.GET("logout", s.logout)
	}

	g1 := r.Group("/api") //需要登陆才能进行的请求
	g1.Use(s.AuthLogin)
	{
		g1.GET("me", s.me)
		g1.GET("challenges", s.listChallenges)
		g1.GET("challenges/types", s.challengeTypes)
		g1.GET("challenges/:id", s.getChallenge)
		g1.POST("challenges/attempt", s.attempt)
	}
}

// live 插件的接口
func (s *Server) initLiveRouters(r *gin.Engine) {
	g := r.Group("/api/v1/live_challenges")
	g.GET("check_access/:id", s.AuthLogin, s.checkAccess)
	g.GET("users", s.AuthAdmin, s.liveUsers)
}

func (s *Server) initAdminRouters(r *gin.Engine) {
	g := r.Group("/api/admin", s.AuthAdmin)
	{
		g.POST("challenges", s.createChallenge)
		g.GET("challenges/:id", s.adminGetChallenge)
		g.PATCH("challenges/:id", s.updateChallenge)
		g.DELETE("challenges/:id", s.deleteChallenge)
		g.POST("challenges/:id/flags", s.createFlag)
		g.GET("challenges/:id/flags", s.listFlags)
		g.DELETE("flags/:id", s.deleteFlag)
		g.POST("challenges/:id/files", s.uploadFile)
		g.POST("challenges/:id/tags", s.createTag)

		g.POST("users", s.createUser)
		g.POST("teams", s.createTeam)
		g.GET("teams/:id/awards", s.teamAwards)
	}
}
