// Package cli handles cmd line input and lookups for DBG and testing mapping tables
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordmap/internal/logger"
	"github.com/bastiangx/wordmap/internal/utils"
	"github.com/bastiangx/wordmap/pkg/config"
	"github.com/bastiangx/wordmap/pkg/mapping"
	"github.com/bastiangx/wordmap/pkg/registry"
	"github.com/bastiangx/wordmap/pkg/transform"
)

const (
	DirectionValue = "value"
	DirectionKey   = "key"
)

// InputHandler reads queries and commands line by line and prints
// lookups against the selected table.
type InputHandler struct {
	registry     *registry.Registry
	transforms   *transform.Registry
	table        string
	direction    string
	transform    string
	maxQuery     int
	requestCount int
	out          *log.Logger
}

// NewInputHandler creates a handler starting on the configured default
// table, direction and transform.
func NewInputHandler(reg *registry.Registry, transforms *transform.Registry, cfg *config.Config) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if transforms == nil {
		transforms = transform.NewRegistry()
	}
	return &InputHandler{
		registry:   reg,
		transforms: transforms,
		table:      cfg.CLI.DefaultTable,
		direction:  cfg.CLI.DefaultDirection,
		transform:  cfg.CLI.Transform,
		maxQuery:   cfg.Server.MaxQuery,
		out:        logger.New(""),
	}
}

// SetOutput redirects printed results to w.
func (h *InputHandler) SetOutput(w io.Writer) {
	h.out = logger.NewWithWriter(w, "")
}

// Table returns the name of the selected table.
func (h *InputHandler) Table() string {
	return h.table
}

// Direction returns the selected lookup direction.
func (h *InputHandler) Direction() string {
	return h.direction
}

// Start begins the interface loop on stdin.
func (h *InputHandler) Start() error {
	h.out.Print("wordmap CLI [BETA]")
	h.out.Print("type a word and press Enter, :help for commands (Ctrl+C to exit):")
	return h.Run(os.Stdin)
}

// Run processes every line of r. It returns nil once r is exhausted.
func (h *InputHandler) Run(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line[1:])
		return
	}
	h.lookup(line)
}

func (h *InputHandler) handleCommand(command string) {
	name, arg, _ := strings.Cut(command, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "table", "t":
		if arg == "" {
			h.out.Print("current table", "table", h.table)
			return
		}
		if _, ok := h.registry.Get(arg); !ok {
			h.out.Errorf("Unknown table: %s", arg)
			return
		}
		h.table = arg
		h.out.Print("switched table", "table", h.table)

	case "dir", "d":
		switch arg {
		case DirectionValue, "v":
			h.direction = DirectionValue
		case DirectionKey, "k":
			h.direction = DirectionKey
		case "":
		default:
			h.out.Errorf("Unknown direction: %s (use value or key)", arg)
			return
		}
		h.out.Print("direction", "dir", h.direction)

	case "x", "transform":
		if arg == "" {
			h.out.Print("transforms", "available", strings.Join(h.transforms.Names(), ", "))
			return
		}
		if _, ok := h.transforms.Lookup(arg); !ok {
			h.out.Errorf("Unknown transform: %s", arg)
			return
		}
		h.transform = arg
		h.out.Print("transform", "x", h.transform)

	case "tables":
		names := h.registry.Names(arg)
		if len(names) == 0 {
			h.out.Warnf("No tables found for prefix: '%s'", arg)
			return
		}
		for i, name := range names {
			h.out.Printf("%2d. %s", i+1, name)
		}

	case "dump":
		h.dump()

	case "help", "h":
		h.out.Print("<word>            map word through the current table")
		h.out.Print(":table <name>     select a table")
		h.out.Print(":dir value|key    select the lookup direction")
		h.out.Print(":x <transform>    select an output transform")
		h.out.Print(":tables [prefix]  list tables")
		h.out.Print(":dump             show the patterns of the current table")

	default:
		h.out.Errorf("Unknown command: :%s", name)
	}
}

func (h *InputHandler) lookup(query string) {
	h.requestCount++

	if err := utils.ValidateQuery(query, h.maxQuery); err != nil {
		h.out.Errorf("Invalid query: %v", err)
		return
	}

	table, ok := h.registry.Get(h.table)
	if !ok {
		h.out.Errorf("Unknown table: %s", h.table)
		return
	}

	start := time.Now()

	var (
		result  string
		matched bool
	)
	if h.direction == DirectionKey {
		result, matched = table.KeyFor(query)
	} else {
		result, matched = table.ValueFor(query)
	}

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if !matched {
		h.out.Warnf("No pattern in %s accepts '%s'", h.table, query)
		return
	}

	h.out.Printf("%s -> %s", query, h.transforms.Apply(h.transform, result))
}

// dump prints the key and value trees of the current table
func (h *InputHandler) dump() {
	table, ok := h.registry.Get(h.table)
	if !ok {
		h.out.Errorf("Unknown table: %s", h.table)
		return
	}

	pairs := table.Pairs()
	h.out.Printf("%s: %d pairs, marker %q", h.table, table.Len(), table.Marker())
	h.dumpTree("keys", table, pairs, true)
	h.dumpTree("values", table, pairs, false)
}

func (h *InputHandler) dumpTree(title string, table *mapping.Mapping, pairs []mapping.Pair, forward bool) {
	tree := table.Reverse()
	if forward {
		tree = table.Forward()
	}

	h.out.Print(title)
	tree.Walk(func(pattern string, index int) {
		counterpart := pairs[index].Value
		if !forward {
			counterpart = pairs[index].Key
		}
		h.out.Printf("  %-20s [%d] %s", pattern, index, counterpart)
	})
}
