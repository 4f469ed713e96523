package amcrest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/model"
)

const heartbeat = "Heartbeat"

var ErrStreamClosed = errors.New("camera closed the event stream")

// Listen attaches to the camera event stream and calls handler for every
// event, in order. It only returns on failure: a stream error, the stream
// ending, a handler error or ctx being cancelled. It never reconnects.
func (c *client) Listen(ctx context.Context, handler func(model.Event) error) error {
	resp, err := c.get(ctx, "eventManager.cgi?action=attach&codes=[All]")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Info("listening for events")
	err = readEventStream(resp.Body, handler)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// readEventStream reads a multipart/x-mixed-replace body. Parts are read by
// Content-Length so an event is delivered without waiting for the next
// boundary.
func readEventStream(r io.Reader, handler func(model.Event) error) error {
	tp := textproto.NewReader(bufio.NewReader(r))
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return streamErr(err)
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			continue
		}
		if strings.HasSuffix(line, "--") && len(line) > 2 {
			return ErrStreamClosed
		}

		header, err := tp.ReadMIMEHeader()
		if err != nil {
			return streamErr(err)
		}

		var body string
		if n, convErr := strconv.Atoi(header.Get("Content-Length")); convErr == nil && n > 0 {
			buf := make([]byte, n)
			if _, err := io.ReadFull(tp.R, buf); err != nil {
				return streamErr(err)
			}
			body = string(buf)
		} else {
			if body, err = tp.ReadLine(); err != nil {
				return streamErr(err)
			}
		}

		for _, ev := range parseEvents(body) {
			if err := handler(ev); err != nil {
				return err
			}
		}
	}
}

func streamErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrStreamClosed
	}
	return fmt.Errorf("%w: %w", ErrCommunication, err)
}

// parseEvents splits a part body into records. A record starts with a line
// beginning "Code=", following lines belong to its data object.
func parseEvents(body string) []model.Event {
	var records []string
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == heartbeat:
		case strings.HasPrefix(trimmed, "Code="):
			records = append(records, trimmed)
		case len(records) > 0:
			records[len(records)-1] += "\n" + line
		}
	}

	events := make([]model.Event, 0, len(records))
	for _, record := range records {
		payload := parseRecord(record)
		code, _ := payload["Code"].(string)
		events = append(events, model.Event{Code: code, Payload: payload})
	}
	return events
}

// parseRecord reads "Code=VideoMotion;action=Start;index=0;data={...}". The
// data value is always last and may contain ";".
func parseRecord(record string) map[string]any {
	payload := map[string]any{}
	rest := record
	for rest != "" {
		key, remainder, ok := strings.Cut(rest, "=")
		if !ok {
			break
		}
		key = strings.TrimSpace(key)
		if key == "data" {
			payload[key] = parseData(remainder)
			break
		}
		var val string
		val, rest, _ = strings.Cut(remainder, ";")
		payload[key] = strings.TrimSpace(val)
	}
	return payload
}

func parseData(raw string) any {
	raw = strings.TrimSpace(raw)
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		zap.L().Debug("event data is not valid JSON", zap.String("data", raw), zap.Error(err))
		return raw
	}
	return data
}
