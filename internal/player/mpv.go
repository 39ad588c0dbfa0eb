package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// Property observation ids for the mpv IPC protocol
const (
	obsPause = iota + 1
	obsTimePos
	obsDuration
	obsVolume
	obsMute
	obsFullscreen
	obsPausedForCache
	obsCacheEnd
)

// MPVSurface drives an mpv process over its JSON IPC socket. mpv owns the
// actual adaptive-streaming session; this type only issues commands and
// translates observed properties into surface events.
type MPVSurface struct {
	command string
	args    []string
	logger  *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	conn   net.Conn
	socket string

	events chan Event
	done   chan struct{}

	// Last observed values, combined into composite events
	position   float64
	duration   float64
	volume     float64
	muted      bool
	cacheEnd   float64
	haveVolume bool
}

// NewMPVSurface creates a surface that will spawn mpv on first Load.
// command defaults to "mpv" when empty.
func NewMPVSurface(command string, args []string, logger *slog.Logger) *MPVSurface {
	if command == "" {
		command = "mpv"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MPVSurface{
		command: command,
		args:    args,
		logger:  logger,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
}

// Events implements Surface
func (s *MPVSurface) Events() <-chan Event {
	return s.events
}

// Load implements Surface. Loading a new file in mpv replaces the current
// one, which tears down the previous stream's network activity.
func (s *MPVSurface) Load(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureProcess(); err != nil {
		return err
	}

	s.position = 0
	s.duration = 0
	s.cacheEnd = 0

	s.emit(Event{Kind: EventLoadStart})
	return s.send("loadfile", url, "replace")
}

// Stop implements Surface
func (s *MPVSurface) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.send("stop")
}

func (s *MPVSurface) Play() error  { return s.setProperty("pause", false) }
func (s *MPVSurface) Pause() error { return s.setProperty("pause", true) }

func (s *MPVSurface) SetVolume(volume float64) error {
	// mpv volume is 0-100
	return s.setProperty("volume", volume*100)
}

func (s *MPVSurface) SetMuted(muted bool) error {
	return s.setProperty("mute", muted)
}

func (s *MPVSurface) SetFullscreen(fullscreen bool) error {
	return s.setProperty("fullscreen", fullscreen)
}

func (s *MPVSurface) SeekTo(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("no stream attached")
	}
	return s.send("seek", seconds, "absolute")
}

func (s *MPVSurface) SeekBy(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("no stream attached")
	}
	return s.send("seek", seconds, "relative")
}

// Close implements Surface, shutting down the mpv process
func (s *MPVSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.done)
	if s.conn != nil {
		_ = s.send("quit")
		s.conn.Close()
		s.conn = nil
	}
	if s.cmd != nil && s.cmd.Process != nil {
		// mpv exits on quit; reap it so it doesn't linger as a zombie
		go s.cmd.Wait()
		s.cmd = nil
	}
	if s.socket != "" {
		os.Remove(s.socket)
	}
	return nil
}

// ensureProcess spawns mpv and connects to its IPC socket. Caller holds mu.
func (s *MPVSurface) ensureProcess() error {
	if s.conn != nil {
		return nil
	}

	s.socket = filepath.Join(os.TempDir(), fmt.Sprintf("reel-mpv-%d.sock", os.Getpid()))

	args := append([]string{
		"--idle=yes",
		"--no-terminal",
		"--force-window=yes",
		"--keep-open=yes",
		"--input-ipc-server=" + s.socket,
	}, s.args...)

	cmd := exec.Command(s.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.command, err)
	}
	s.cmd = cmd

	// The socket appears shortly after mpv starts
	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("unix", s.socket)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to mpv ipc: %w", err)
	}
	s.conn = conn

	go s.readLoop(conn)

	observations := []struct {
		id   int
		name string
	}{
		{obsPause, "pause"},
		{obsTimePos, "time-pos"},
		{obsDuration, "duration"},
		{obsVolume, "volume"},
		{obsMute, "mute"},
		{obsFullscreen, "fullscreen"},
		{obsPausedForCache, "paused-for-cache"},
		{obsCacheEnd, "demuxer-cache-time"},
	}
	for _, obs := range observations {
		if err := s.send("observe_property", obs.id, obs.name); err != nil {
			return err
		}
	}

	s.logger.Info("mpv started", "command", s.command, "socket", s.socket)
	return nil
}

// send writes one IPC command. Caller holds mu (or is called from a
// method that does).
func (s *MPVSurface) send(command ...any) error {
	if s.conn == nil {
		return fmt.Errorf("mpv not running")
	}
	payload, err := json.Marshal(map[string]any{"command": command})
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("mpv ipc write: %w", err)
	}
	return nil
}

func (s *MPVSurface) setProperty(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("no stream attached")
	}
	return s.send("set_property", name, value)
}

// ipcMessage is one line from the mpv IPC socket
type ipcMessage struct {
	Event     string          `json:"event"`
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
	RequestID *int            `json:"request_id"`
	IPCError  string          `json:"error"`
}

func (s *MPVSurface) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-s.done:
			return
		default:
		}

		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			s.logger.Debug("unparseable ipc line", "line", scanner.Text())
			continue
		}

		if msg.RequestID != nil {
			if msg.IPCError != "" && msg.IPCError != "success" {
				s.emit(Event{Kind: EventError, ErrType: "ipc", Reason: msg.IPCError})
			}
			continue
		}

		s.mu.Lock()
		s.handleIPCEvent(msg)
		s.mu.Unlock()
	}
}

func (s *MPVSurface) handleIPCEvent(msg ipcMessage) {
	switch msg.Event {
	case "start-file":
		s.emit(Event{Kind: EventLoadStart})

	case "file-loaded":
		s.emit(Event{Kind: EventLoadedData})
		s.emit(Event{Kind: EventCanPlay})

	case "playback-restart":
		s.emit(Event{Kind: EventPlaying})

	case "seek":
		s.emit(Event{Kind: EventWaiting})

	case "end-file":
		switch msg.Reason {
		case "eof":
			s.emit(Event{Kind: EventEnded})
		case "error":
			s.emit(Event{Kind: EventFatalError, ErrType: "playback", Reason: s.fileError(msg)})
		}
		// "stop" and "quit" are our own teardown; nothing to report

	case "property-change":
		s.handlePropertyChange(msg)
	}
}

func (s *MPVSurface) fileError(msg ipcMessage) string {
	if msg.FileError != "" {
		return msg.FileError
	}
	return "stream failed"
}

func (s *MPVSurface) handlePropertyChange(msg ipcMessage) {
	switch msg.ID {
	case obsPause:
		var paused bool
		if json.Unmarshal(msg.Data, &paused) != nil {
			return
		}
		if paused {
			s.emit(Event{Kind: EventPause})
		} else {
			s.emit(Event{Kind: EventPlay})
		}

	case obsTimePos:
		var pos *float64
		if json.Unmarshal(msg.Data, &pos) != nil || pos == nil {
			return
		}
		s.position = *pos
		s.emitTimeUpdate()

	case obsDuration:
		var dur *float64
		if json.Unmarshal(msg.Data, &dur) != nil || dur == nil {
			return
		}
		s.duration = *dur
		s.emitTimeUpdate()

	case obsVolume:
		var vol float64
		if json.Unmarshal(msg.Data, &vol) != nil {
			return
		}
		s.volume = vol / 100
		s.haveVolume = true
		s.emit(Event{Kind: EventVolumeChange, Volume: s.volume, Muted: s.muted})

	case obsMute:
		var muted bool
		if json.Unmarshal(msg.Data, &muted) != nil {
			return
		}
		s.muted = muted
		if s.haveVolume {
			s.emit(Event{Kind: EventVolumeChange, Volume: s.volume, Muted: s.muted})
		}

	case obsFullscreen:
		var fullscreen bool
		if json.Unmarshal(msg.Data, &fullscreen) != nil {
			return
		}
		s.emit(Event{Kind: EventFullscreenChange, Fullscreen: fullscreen})

	case obsPausedForCache:
		var stalled bool
		if json.Unmarshal(msg.Data, &stalled) != nil {
			return
		}
		if stalled {
			s.emit(Event{Kind: EventWaiting})
		} else {
			s.emit(Event{Kind: EventPlaying})
		}

	case obsCacheEnd:
		var end *float64
		if json.Unmarshal(msg.Data, &end) != nil || end == nil {
			return
		}
		s.cacheEnd = *end
	}
}

func (s *MPVSurface) emitTimeUpdate() {
	ev := Event{
		Kind:     EventTimeUpdate,
		Position: s.position,
		Duration: s.duration,
	}
	// mpv exposes one demuxer cache window ahead of the playhead
	if s.cacheEnd > s.position {
		ev.Buffered = []TimeRange{{Start: s.position, End: s.cacheEnd}}
	}
	s.emit(ev)
}

// emit delivers an event without ever blocking the IPC reader. A full
// channel means the UI is far behind; dropping a progress event is safer
// than stalling mpv's socket.
func (s *MPVSurface) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("event dropped", "kind", ev.Kind)
	}
}
