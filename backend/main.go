package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donyori/gorecover"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/tranquocphongvn/caro/engine"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	NextPlayer      string            `json:"next_player"`
	Winner          string            `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	Board           []string          `json:"board"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []engine.Move     `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	LastMessage     string            `json:"last_message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer string `json:"human_player,omitempty"`
	BoardSize   int    `json:"board_size"`
}

type startRequest struct {
	BoardSize   int    `json:"board_size"`
	HumanPlayer string `json:"human_player"`
	Mode        string `json:"mode"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type suggestRequest struct {
	Rows   []string `json:"rows"`
	Player string   `json:"player"`
}

type suggestResponse struct {
	Row      int           `json:"row"`
	Col      int           `json:"col"`
	Stage    string        `json:"stage"`
	Score    int           `json:"score"`
	Critical []engine.Move `json:"critical,omitempty"`
}

type undoResponse struct {
	Removed int            `json:"removed"`
	Status  StatusResponse `json:"status"`
}

type historyEntryDTO struct {
	Row       int     `json:"row"`
	Col       int     `json:"col"`
	Player    string  `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Stage     string  `json:"stage,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	Board           []string          `json:"board"`
	NextPlayer      string            `json:"next_player"`
	Winner          string            `json:"winner"`
	Status          string            `json:"status"`
	BoardSize       int               `json:"board_size"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

func main() {
	var runErr error
	err := gorecover.Recover(func() {
		runErr = run(os.Args[1:])
	})
	if err == nil {
		err = runErr
	}
	if err != nil {
		log.Printf("[backend] exiting: %v", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("backend", flag.ContinueOnError)
	addr := flags.String("addr", ":8080", "listen address")
	configPath := flags.String("config", "caro-settings.json", "JSON settings file, created with defaults when missing")
	if err := flags.Parse(args); err != nil {
		return err
	}

	config, err := loadOrCreateSettings(*configPath)
	if err != nil {
		return err
	}
	if err := configStore.Update(config); err != nil {
		return err
	}

	controller := NewGameController(DefaultGameSettings(), config)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go runGameLoop(ctx, controller, hub)

	server := &http.Server{
		Addr:    *addr,
		Handler: newRouter(controller, hub, *configPath),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Printf("[backend] listening on %s", *addr)
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}
	return runErr
}

// runGameLoop drives AI turns and pushes every applied move to the hub.
func runGameLoop(ctx context.Context, controller *GameController, hub *Hub) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if controller.Tick() {
				if entry, ok := controller.LatestHistoryEntry(); ok {
					hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
				}
				hub.broadcastStatus <- controllerStatus(controller)
			}
		}
	}
}

func newRouter(controller *GameController, hub *Hub, configPath string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload startRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		settings, err := settingsFromStart(payload, controller.Settings())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset(controller.Settings())
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload moveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		applied, errMsg := controller.ApplyHumanMove(engine.Move{Row: payload.Row, Col: payload.Col})
		if !applied {
			writeError(w, http.StatusBadRequest, errMsg)
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
		}
		status := controllerStatus(controller)
		hub.broadcastStatus <- status
		writeJSON(w, http.StatusOK, status)
	})

	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		removed, err := controller.Undo()
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, undoResponse{Removed: removed, Status: controllerStatus(controller)})
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/suggest", func(w http.ResponseWriter, r *http.Request) {
		var payload suggestRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		response, status, err := suggest(payload, GetConfig())
		if err != nil {
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, response)
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		})
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if payload.Config != nil {
			if err := configStore.Update(*payload.Config); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			controller.ApplyConfig(*payload.Config)
			if configPath != "" {
				if err := StoreSettings(configPath, *payload.Config); err != nil {
					log.Printf("[backend] storing settings to %s failed: %v", configPath, err)
				}
			}
		}
		if payload.Settings != nil {
			current := controller.Settings()
			settings, err := settingsFromDTO(*payload.Settings, current)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			controller.UpdateSettings(settings, false)
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})
	return r
}

// suggest is a stateless engine call on a caller supplied board. The
// returned int is the HTTP status to use when err is not nil.
func suggest(payload suggestRequest, config Config) (suggestResponse, int, error) {
	board, err := engine.ParseBoard(payload.Rows)
	if err != nil {
		return suggestResponse{}, http.StatusBadRequest, err
	}
	player, err := engine.ParsePlayer(payload.Player)
	if err != nil {
		return suggestResponse{}, http.StatusBadRequest, err
	}
	decision, err := engine.NewResolver(config.EngineConfig(), nil).Decide(board, player)
	if errors.Is(err, engine.ErrNoMove) {
		return suggestResponse{}, http.StatusConflict, err
	}
	if err != nil {
		return suggestResponse{}, http.StatusInternalServerError, err
	}
	return suggestResponse{
		Row:      decision.Move.Row,
		Col:      decision.Move.Col,
		Stage:    decision.Stage.String(),
		Score:    decision.Score,
		Critical: decision.Critical,
	}, http.StatusOK, nil
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send, wsIdlePingInterval); err != nil {
			log.Printf("[ws] write: %v", err)
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controllerStatus(controller))})
		case "click":
			var move moveRequest
			if err := json.Unmarshal(msg.Payload, &move); err == nil {
				controller.OnCellClicked(move.Row, move.Col)
			}
		}
	}
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	return StatusResponse{
		Settings:        controllerSettingsDTO(controller.Settings()),
		Config:          GetConfig(),
		NextPlayer:      state.ToMove.String(),
		Winner:          winnerString(state.Status),
		BoardSize:       state.Board.Size(),
		Status:          state.Status.String(),
		Board:           state.Board.Rows(),
		History:         historyToDTO(controller.History()),
		WinningLine:     append([]engine.Move(nil), state.WinningLine...),
		AiThinking:      controller.AiThinking(),
		LastMessage:     state.LastMessage,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		History:         historyToDTO(controller.History()),
		Board:           state.Board.Rows(),
		NextPlayer:      state.ToMove.String(),
		Winner:          winnerString(state.Status),
		Status:          state.Status.String(),
		BoardSize:       state.Board.Size(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func winnerString(status GameStatus) string {
	winner := status.Winner()
	if winner == engine.PlayerNone {
		return ""
	}
	return winner.String()
}

func settingsFromStart(payload startRequest, base GameSettings) (GameSettings, error) {
	settings := base
	if payload.BoardSize != 0 {
		settings.BoardSize = payload.BoardSize
	}
	if err := settings.Validate(); err != nil {
		return base, err
	}
	human, err := humanPlayerFromString(payload.HumanPlayer)
	if err != nil {
		return base, err
	}
	return settings.withMode(payload.Mode, human)
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) (GameSettings, error) {
	human, err := humanPlayerFromString(dto.HumanPlayer)
	if err != nil {
		return base, err
	}
	settings := base
	if dto.BoardSize != 0 {
		settings.BoardSize = dto.BoardSize
		if err := settings.Validate(); err != nil {
			return base, err
		}
	}
	return settings.withMode(dto.Mode, human)
}

func humanPlayerFromString(value string) (engine.Player, error) {
	if value == "" {
		return engine.PlayerX, nil
	}
	return engine.ParsePlayer(value)
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	dto := GameSettingsDTO{Mode: settings.Mode(), BoardSize: settings.BoardSize}
	if human := settings.HumanPlayer(); human != engine.PlayerNone {
		dto.HumanPlayer = human.String()
	}
	return dto
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	dto := historyEntryDTO{
		Row:       entry.Move.Row,
		Col:       entry.Move.Col,
		Player:    entry.Player.String(),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
	}
	if entry.IsAi {
		dto.Stage = entry.Stage.String()
	}
	return dto
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
