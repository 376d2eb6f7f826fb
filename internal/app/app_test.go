package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/ilyakarev/gomarket/internal/config"
	"github.com/ilyakarev/gomarket/internal/handlers"
	"github.com/ilyakarev/gomarket/internal/service"
	"github.com/stretchr/testify/suite"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
}

func (s *ApplicationSuite) TestGracefulShutdown() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.cfg = &config.Config{Address: "127.0.0.1:0"}
	s.app.api = handlers.New(&service.Services{})

	s.Require().NoError(s.app.startHTTPServer(ctx))
	cancel()

	err := s.app.Wait(ctx, cancel)
	s.NoError(err)
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}
