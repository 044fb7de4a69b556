// Command console drives a bytesocket from the terminal: connect to a peer,
// queue typed writes, flush them and read typed values back.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Zereker/bytesocket"
	"github.com/chzyer/readline"
)

type console struct {
	sock    *bytesocket.Socket
	cfg     *bytesocket.Config
	rl      *readline.Instance
	charset string
}

func main() {
	var (
		configPath string
		host       string
		port       int
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&host, "host", "", "Peer host (overrides config)")
	flag.IntVar(&port, "port", 0, "Peer port (overrides config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg := &bytesocket.Config{Timeout: bytesocket.DefaultTimeout, Charset: bytesocket.UTF8}
	if configPath != "" {
		var err error
		if cfg, err = bytesocket.LoadConfig(configPath); err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	if host != "" {
		cfg.Host = host
	}
	if port != 0 {
		cfg.Port = port
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "socket> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		slog.Error("failed to create readline", "error", err)
		os.Exit(1)
	}
	defer rl.Close()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: level}))

	c := &console{cfg: cfg, rl: rl, charset: cfg.Charset}

	opts := append(cfg.Options(),
		bytesocket.LoggerOption(logger),
		bytesocket.OnEventOption(c.onEvent),
	)
	c.sock = bytesocket.New(opts...)

	if cfg.Host != "" && cfg.Port != 0 {
		c.cmdConnect([]string{cfg.Host, strconv.Itoa(cfg.Port)})
	}

	c.run()
	_ = c.sock.Close()
}

func (c *console) out() io.Writer {
	return c.rl.Stdout()
}

func (c *console) onEvent(ev bytesocket.Event) {
	switch ev.Type {
	case bytesocket.EventSocketData:
		fmt.Fprintf(c.out(), "[%s] %d bytes received, %d available\n", ev.Type, ev.Bytes, c.sock.BytesAvailable())
	case bytesocket.EventIOError:
		fmt.Fprintf(c.out(), "[%s] %v\n", ev.Type, ev.Err)
	default:
		fmt.Fprintf(c.out(), "[%s]\n", ev.Type)
	}
}

func (c *console) run() {
	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()
		case "connect", "c":
			c.cmdConnect(args)
		case "close":
			_ = c.sock.Close()
		case "flush", "f":
			if err := c.sock.Flush(); err != nil {
				fmt.Fprintf(c.out(), "Error: %v\n", err)
			}
		case "write", "w":
			c.cmdWrite(args)
		case "read", "r":
			c.cmdRead(args)
		case "endian":
			c.cmdEndian(args)
		case "timeout":
			c.cmdTimeout(args)
		case "status", "s":
			c.cmdStatus()
		case "quit", "exit", "q":
			return
		default:
			fmt.Fprintf(c.out(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out(), `
Socket Commands:
  connect <host> <port>  - Start connecting
  close                  - Close the connection
  write <type> <value>   - Queue a typed value
  flush                  - Send queued bytes
  read <type> [n]        - Read a typed value (n for bytes/utfbytes/multibyte)
  endian big|little      - Set byte order
  timeout <duration>     - Set connect timeout (minimum 250ms)
  status                 - Show socket state
  quit                   - Exit

  Types: bool int8 uint8 int16 uint16 int32 uint32 float32 float64
         utf utfbytes multibyte bytes raw`)
}

func (c *console) cmdConnect(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out(), "Usage: connect <host> <port>")
		return
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.out(), "Invalid port: %v\n", err)
		return
	}
	if err := c.sock.Connect(args[0], port); err != nil {
		fmt.Fprintf(c.out(), "Error: %v\n", err)
	}
}

func (c *console) cmdWrite(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out(), "Usage: write <type> <value>")
		return
	}
	typ, value := args[0], strings.Join(args[1:], " ")

	var err error
	switch typ {
	case "bool":
		var v bool
		if v, err = strconv.ParseBool(value); err == nil {
			c.sock.WriteBool(v)
		}
	case "int8", "int16", "int32":
		var v int64
		if v, err = strconv.ParseInt(value, 0, bitSize(typ)); err == nil {
			switch typ {
			case "int8":
				c.sock.WriteInt8(int8(v))
			case "int16":
				c.sock.WriteInt16(int16(v))
			default:
				c.sock.WriteInt32(int32(v))
			}
		}
	case "uint8", "uint16", "uint32":
		var v uint64
		if v, err = strconv.ParseUint(value, 0, bitSize(typ)); err == nil {
			switch typ {
			case "uint8":
				c.sock.WriteUint8(uint8(v))
			case "uint16":
				c.sock.WriteUint16(uint16(v))
			default:
				c.sock.WriteUint32(uint32(v))
			}
		}
	case "float32":
		var v float64
		if v, err = strconv.ParseFloat(value, 32); err == nil {
			c.sock.WriteFloat32(float32(v))
		}
	case "float64":
		var v float64
		if v, err = strconv.ParseFloat(value, 64); err == nil {
			c.sock.WriteFloat64(v)
		}
	case "utf":
		err = c.sock.WriteUTF(value)
	case "utfbytes":
		err = c.sock.WriteUTFBytes(value)
	case "multibyte":
		err = c.sock.WriteMultiByte(value, c.charset)
	case "bytes", "raw":
		c.sock.WriteBytes([]byte(value))
	default:
		err = fmt.Errorf("unknown type %q", typ)
	}

	if err != nil {
		fmt.Fprintf(c.out(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out(), "%d bytes pending\n", c.sock.BytesPending())
}

func (c *console) cmdRead(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out(), "Usage: read <type> [n]")
		return
	}
	n := c.sock.BytesAvailable()
	if len(args) > 1 {
		var err error
		if n, err = strconv.Atoi(args[1]); err != nil {
			fmt.Fprintf(c.out(), "Invalid length: %v\n", err)
			return
		}
	}

	var (
		v   any
		err error
	)
	switch args[0] {
	case "bool":
		v, err = c.sock.ReadBool()
	case "int8":
		v, err = c.sock.ReadInt8()
	case "uint8":
		v, err = c.sock.ReadUint8()
	case "int16":
		v, err = c.sock.ReadInt16()
	case "uint16":
		v, err = c.sock.ReadUint16()
	case "int32":
		v, err = c.sock.ReadInt32()
	case "uint32":
		v, err = c.sock.ReadUint32()
	case "float32":
		v, err = c.sock.ReadFloat32()
	case "float64":
		v, err = c.sock.ReadFloat64()
	case "utf":
		v, err = c.sock.ReadUTF()
	case "utfbytes":
		v, err = c.sock.ReadUTFBytes(n)
	case "multibyte":
		v, err = c.sock.ReadMultiByte(n, c.charset)
	case "bytes":
		var p []byte
		p, err = c.sock.ReadBytes(n)
		v = fmt.Sprintf("% x", p)
	case "raw":
		v = fmt.Sprintf("% x", c.sock.ReadRaw(n))
	default:
		err = fmt.Errorf("unknown type %q", args[0])
	}

	if err != nil {
		fmt.Fprintf(c.out(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out(), "%v (%d bytes left)\n", v, c.sock.BytesAvailable())
}

func (c *console) cmdEndian(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(c.out(), "endian: %s\n", c.sock.Endian())
		return
	}
	var e bytesocket.Endian
	if err := e.UnmarshalText([]byte(args[0])); err != nil {
		fmt.Fprintf(c.out(), "Error: %v\n", err)
		return
	}
	c.sock.SetEndian(e)
}

func (c *console) cmdTimeout(args []string) {
	if len(args) == 1 {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			fmt.Fprintf(c.out(), "Invalid duration: %v\n", err)
			return
		}
		c.sock.SetTimeout(d)
	}
	fmt.Fprintf(c.out(), "timeout: %s\n", c.sock.Timeout())
}

func (c *console) cmdStatus() {
	fmt.Fprintf(c.out(), "state:     %s\n", c.sock.State())
	fmt.Fprintf(c.out(), "endian:    %s\n", c.sock.Endian())
	fmt.Fprintf(c.out(), "timeout:   %s\n", c.sock.Timeout())
	fmt.Fprintf(c.out(), "encoding:  %s\n", c.sock.ObjectEncoding())
	fmt.Fprintf(c.out(), "available: %d\n", c.sock.BytesAvailable())
	fmt.Fprintf(c.out(), "pending:   %d\n", c.sock.BytesPending())
}

func bitSize(typ string) int {
	n, _ := strconv.Atoi(strings.TrimLeft(typ, "uint"))
	return n
}
