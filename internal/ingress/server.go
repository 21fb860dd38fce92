package ingress

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"prorata/internal/book"
	"prorata/internal/engine"
	"prorata/internal/workerpool"
)

const (
	maxMessageSize = 4 * 1024
	defaultWorkers = 10
	readTimeout    = 30 * time.Second
)

// Server is a tomb-supervised TCP front end over an engine.Engine: an
// accept loop handing connections to a worker pool, each worker owning
// one connection end to end.
type Server struct {
	address string
	port    int
	eng     *engine.Engine
	pool    *workerpool.WorkerPool
}

func New(address string, port int, eng *engine.Engine) *Server {
	return &Server{
		address: address,
		port:    port,
		eng:     eng,
		pool:    workerpool.New(defaultWorkers),
	}
}

// Run blocks, serving connections until ctx is cancelled or a fatal error
// occurs.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("ingress: listen: %w", err)
	}
	defer listener.Close()

	t.Go(func() error {
		s.pool.Run(t, s.handleConnection)
		return nil
	})

	t.Go(func() error {
		<-t.Dying()
		return listener.Close()
	})

	log.Info().Str("address", listener.Addr().String()).Msg("ingress server listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-t.Dying():
				return t.Err()
			default:
				log.Error().Err(err).Msg("accept failed")
				continue
			}
		}
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
		s.pool.AddTask(conn)
	}
}

// handleConnection reads messages off conn, parsing the bytes of each
// Read as one message, until it closes or the tomb starts dying, replying
// on the same connection with one line per trade/ack/cancel/error.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("ingress: unexpected task type %T", task)
	}
	defer conn.Close()

	out := bufio.NewWriter(conn)
	buf := make([]byte, maxMessageSize)

	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("connection read failed")
			}
			return nil
		}

		msg, err := ParseMessage(buf[:n])
		if err != nil {
			fmt.Fprintf(out, "ERROR %v\n", err)
			out.Flush()
			continue
		}

		switch req := msg.(type) {
		case *NewOrderRequest:
			s.handleNewOrder(out, req)
		case *CancelOrderRequest:
			s.handleCancel(out, req)
		}
		out.Flush()
	}
}

func (s *Server) handleNewOrder(out *bufio.Writer, req *NewOrderRequest) {
	id := xxhash.Sum64(req.RequestToken[:])
	order := book.Order{
		ID:     id,
		Trader: req.Trader,
		Symbol: req.Symbol,
		Size:   req.Size,
		IsBuy:  req.IsBuy,
	}

	fills, err := s.eng.PlaceOrder(order, req.Price)
	if err != nil {
		fmt.Fprintf(out, "ERROR %v\n", err)
		return
	}

	fmt.Fprintf(out, "ACK %d\n", id)
	for _, f := range fills {
		fmt.Fprintln(out, f.String())
	}
}

func (s *Server) handleCancel(out *bufio.Writer, req *CancelOrderRequest) {
	ok := s.eng.Cancel(req.Symbol, req.OrderID)
	fmt.Fprintf(out, "CANCEL %d %v\n", req.OrderID, ok)
}
