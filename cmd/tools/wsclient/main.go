// Command wsclient connects to a running server and drives the realtime
// search protocol from the terminal.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/huddlemaps/huddle/backend/internal/logger"
	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:1337/ws", "WebSocket endpoint")
	message := flag.String("message", "", "send NEW_SEARCH_SESSION with this user message, then wait for the result")
	join := flag.String("join", "", "join this search id before reading commands")
	timeout := flag.Duration("timeout", 60*time.Second, "how long to wait for a search result with -message")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(*level, "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, *url, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", *url).Msg("dial failed")
	}
	defer conn.Close()

	frames := make(chan map[string]any)
	go readFrames(conn, frames, log)

	if *join != "" {
		if err := conn.WriteJSON(requestFrame(protocol.TypeJoinSearchSession, protocol.JoinSearchSession{SearchID: *join})); err != nil {
			log.Fatal().Err(err).Msg("join failed")
		}
	}

	if *message != "" {
		if err := sendSearch(conn, *message); err != nil {
			log.Fatal().Err(err).Msg("send failed")
		}
		waitForResult(ctx, frames, *timeout, log)
		return
	}

	go readCommands(conn, os.Stdin, log)
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			printFrame(frame)
		}
	}
}

func sendSearch(conn *websocket.Conn, text string) error {
	return conn.WriteJSON(requestFrame(protocol.TypeNewSearchSession, protocol.NewSearchSession{
		Messages: []chat.Turn{{Role: "user", Content: text}},
	}))
}

// requestFrame flattens msg into a JSON object tagged with msgType.
func requestFrame(msgType string, msg any) map[string]any {
	frame := map[string]any{}
	if data, err := json.Marshal(msg); err == nil {
		_ = json.Unmarshal(data, &frame)
	}
	frame["type"] = msgType
	return frame
}

func readFrames(conn *websocket.Conn, out chan<- map[string]any, log zerolog.Logger) {
	defer close(out)
	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("connection closed")
			}
			return
		}
		out <- frame
	}
}

// readCommands turns stdin lines into protocol frames. A line starting with
// "{" is sent as is; "join <id>" joins a search; anything else starts a new
// search with the line as the user's message.
func readCommands(conn *websocket.Conn, in io.Reader, log zerolog.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch {
		case strings.HasPrefix(line, "{"):
			err = conn.WriteMessage(websocket.TextMessage, []byte(line))
		case strings.HasPrefix(line, "join "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "join "))
			err = conn.WriteJSON(requestFrame(protocol.TypeJoinSearchSession, protocol.JoinSearchSession{SearchID: id}))
		default:
			err = sendSearch(conn, line)
		}
		if err != nil {
			log.Error().Err(err).Msg("write failed")
			return
		}
	}
}

func waitForResult(ctx context.Context, frames <-chan map[string]any, timeout time.Duration, log zerolog.Logger) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			log.Error().Dur("timeout", timeout).Msg("no search result")
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			printFrame(frame)
			switch frame["type"] {
			case protocol.TypeSearchSessionCreated, protocol.TypeError:
				return
			}
		}
	}
}

func printFrame(frame map[string]any) {
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		fmt.Println(frame)
		return
	}
	fmt.Println(string(data))
}
