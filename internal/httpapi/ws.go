package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/model"
)

const wsWriteTimeout = 5 * time.Second

// Frame is pushed to websocket clients on every change.
type Frame struct {
	Todos  []model.TodoItem `json:"todos"`
	Images []model.ImageRef `json:"images"`
}

// allowOrigin accepts clients without an Origin header, same-origin pages
// and origins listed in Config.CORSOrigins. Browsers do not preflight
// websocket upgrades, so the cors middleware does not cover this.
func (s *Server) allowOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, pattern := range s.cfg.CORSOrigins {
		if ok, _ := path.Match(strings.ToLower(pattern), strings.ToLower(origin)); ok {
			return true
		}
	}
	log.Debug().Str("origin", origin).Str("host", r.Host).Msg("websocket origin rejected")
	return false
}

func (s *Server) liveFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// reads only detect the client going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	todos := s.svc.Todos(ctx)
	images := s.svc.Images(ctx)

	var frame Frame
	haveTodos, haveImages := false, false
	for {
		select {
		case <-ctx.Done():
			return
		case items, ok := <-todos:
			if !ok {
				return
			}
			frame.Todos, haveTodos = items, true
		case refs, ok := <-images:
			if !ok {
				return
			}
			frame.Images, haveImages = refs, true
		}
		// first frame once both lists are known
		if !haveTodos || !haveImages {
			continue
		}
		if frame.Images == nil {
			frame.Images = []model.ImageRef{}
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}
