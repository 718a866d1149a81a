package server

func (s *Server) initRoutes() {
	api := s.APIMiddleware()
	authed := append(s.APIMiddleware(), s.RequirePrincipal())

	// Session
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteReissue, ChainMiddleware(s.ReissueHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), api...))

	// Registration
	s.RegisterRouteHandler("POST "+RouteRegisterInitiate, ChainMiddleware(s.RegisterInitiateHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteRegisterResend, ChainMiddleware(s.RegisterResendHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteRegisterComplete, ChainMiddleware(s.RegisterCompleteHandler(), api...))

	// Account (access token required)
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), authed...))
	s.RegisterRouteHandler("PUT "+RouteUpdate, ChainMiddleware(s.UpdateHandler(), authed...))
	s.RegisterRouteHandler("DELETE "+RouteDelete, ChainMiddleware(s.DeleteHandler(), authed...))

	// Password reset
	s.RegisterRouteHandler("POST "+RouteResetRequest, ChainMiddleware(s.ResetRequestHandler(), api...))
	s.RegisterRouteHandler("POST "+RouteResetConfirm, ChainMiddleware(s.ResetConfirmHandler(), api...))

	// Social login
	s.RegisterRouteHandler("GET "+RouteOAuthGoogle, ChainMiddleware(s.GoogleRedirectHandler(), api...))
	s.RegisterRouteHandler("GET "+RouteOAuthGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), api...))
}
