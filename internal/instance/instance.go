package instance

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/thoreinstein/jitsi/internal/errors"
	"github.com/thoreinstein/jitsi/internal/logging"
	"github.com/thoreinstein/jitsi/pkg/fileutil"
)

// Outcome is the result of TryLock.
type Outcome int

const (
	// Success means this process now owns the home directory.
	Success Outcome = iota
	// AlreadyStarted means another process owns it and accepted the arguments.
	AlreadyStarted
	// LockError means ownership could not be determined or taken.
	LockError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AlreadyStarted:
		return "already-started"
	case LockError:
		return "lock-error"
	}
	return "unknown"
}

const (
	// LockFileName is the advisory lock file inside the home directory.
	LockFileName = ".lock"
	// RecordFileName holds the owner's Record.
	RecordFileName = ".lock.yaml"

	ack  = "ok"
	busy = "busy"

	// DefaultDialTimeout bounds the handshake with the running instance.
	DefaultDialTimeout = 5 * time.Second

	forwardBuffer = 16
	maxLineSize   = 64 * 1024
)

// Record describes the process owning the lock.
type Record struct {
	Address string    `yaml:"address"`
	PID     int       `yaml:"pid"`
	Started time.Time `yaml:"started"`
}

// Lock guards one home directory.
type Lock struct {
	dir         string
	dialTimeout time.Duration
	logger      *slog.Logger

	fl        *flock.Flock
	ln        net.Listener
	forwarded chan []string
	done      chan struct{}
	wg        sync.WaitGroup
	release   sync.Once
	err       error
}

// Option configures a Lock.
type Option func(*Lock)

// WithDialTimeout bounds the handshake with a running instance.
func WithDialTimeout(d time.Duration) Option {
	return func(l *Lock) {
		if d > 0 {
			l.dialTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lock) { l.logger = logger }
}

// New returns a Lock for the home directory dir. Nothing is touched until
// TryLock.
func New(dir string, opts ...Option) *Lock {
	l := &Lock{
		dir:         dir,
		dialTimeout: DefaultDialTimeout,
		logger:      logging.NewDiscard(),
		forwarded:   make(chan []string, forwardBuffer),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir returns the guarded home directory.
func (l *Lock) Dir() string { return l.dir }

// Err returns the cause of the last LockError outcome.
func (l *Lock) Err() error { return l.err }

// Forwarded delivers argument vectors sent by later launches. It is closed
// by Release.
func (l *Lock) Forwarded() <-chan []string { return l.forwarded }

// TryLock takes the lock or hands args to the process holding it.
func (l *Lock) TryLock(ctx context.Context, args []string) Outcome {
	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return l.fail(errors.Wrap(err, "creating home directory"))
	}

	l.fl = flock.New(filepath.Join(l.dir, LockFileName))
	locked, err := l.fl.TryLock()
	if err != nil {
		return l.fail(errors.Wrap(err, "acquiring lock"))
	}

	if locked {
		if err := l.serve(); err != nil {
			_ = l.fl.Unlock()
			return l.fail(err)
		}
		l.logger.Debug("instance lock acquired", "dir", l.dir, "address", l.ln.Addr().String())
		return Success
	}

	if err := l.forward(ctx, args); err != nil {
		return l.fail(err)
	}
	l.logger.Debug("arguments forwarded to running instance", "dir", l.dir, "args", len(args))
	return AlreadyStarted
}

func (l *Lock) fail(err error) Outcome {
	l.err = errors.Mark(err, errors.ErrLockFailed)
	l.logger.Debug("instance lock failed", "dir", l.dir, "error", err)
	return LockError
}

// serve starts the forwarding listener and publishes its address.
func (l *Lock) serve() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return errors.Wrap(err, "listening for forwarded arguments")
	}
	rec := Record{Address: ln.Addr().String(), PID: os.Getpid(), Started: time.Now().UTC()}
	if err := fileutil.AtomicWriteYAML(filepath.Join(l.dir, RecordFileName), rec, 0o600); err != nil {
		ln.Close()
		return errors.Wrap(err, "writing lock record")
	}
	l.ln = ln

	l.wg.Add(1)
	go l.accept()
	return nil
}

func (l *Lock) accept() {
	defer l.wg.Done()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.done:
			default:
				l.logger.Warn("forwarding listener stopped", "error", err)
			}
			return
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.handle(conn)
		}()
	}
}

func (l *Lock) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(l.dialTimeout))

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	if !sc.Scan() {
		l.logger.Debug("forwarding connection closed early", "error", sc.Err())
		return
	}
	var args []string
	if err := json.Unmarshal(sc.Bytes(), &args); err != nil {
		l.logger.Warn("malformed forwarded arguments", "error", err)
		return
	}

	// Half the handshake budget, so the sender still reads the refusal.
	timer := time.NewTimer(l.dialTimeout / 2)
	defer timer.Stop()
	select {
	case l.forwarded <- args:
	case <-timer.C:
		l.logger.Warn("forwarded arguments dropped; queue full", "args", len(args))
		_, _ = conn.Write([]byte(busy + "\n"))
		return
	case <-l.done:
		return
	}
	_, _ = conn.Write([]byte(ack + "\n"))
}

// forward sends args to the owner recorded in the lock record.
func (l *Lock) forward(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, l.dialTimeout)
	defer cancel()

	rec, err := l.awaitRecord(ctx)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", rec.Address)
	if err != nil {
		return errors.Wrapf(err, "dialing running instance (pid %d)", rec.PID)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if args == nil {
		args = []string{}
	}
	if err := json.NewEncoder(conn).Encode(args); err != nil {
		return errors.Wrap(err, "sending arguments")
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return errors.Wrap(err, "waiting for acknowledgement")
	}
	switch strings.TrimSpace(reply) {
	case ack:
	case busy:
		return errors.Newf("running instance (pid %d) is not accepting arguments", rec.PID)
	default:
		return errors.Newf("unexpected reply %q from running instance", strings.TrimSpace(reply))
	}
	return nil
}

// awaitRecord reads the lock record, retrying while the owner may still be
// writing it.
func (l *Lock) awaitRecord(ctx context.Context) (Record, error) {
	path := filepath.Join(l.dir, RecordFileName)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		var rec Record
		err := fileutil.ReadYAML(path, &rec)
		if err == nil && rec.Address != "" {
			return rec, nil
		}
		select {
		case <-ctx.Done():
			if err == nil {
				err = errors.New("lock record has no address")
			}
			return Record{}, errors.Wrap(err, "reading lock record")
		case <-tick.C:
		}
	}
}

// Release stops forwarding, removes the record and drops the lock. Only
// the first call has any effect.
func (l *Lock) Release() error {
	var err error
	l.release.Do(func() {
		close(l.done)
		if l.ln == nil {
			close(l.forwarded)
			return
		}
		l.ln.Close()
		l.wg.Wait()
		close(l.forwarded)

		if rmErr := os.Remove(filepath.Join(l.dir, RecordFileName)); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Wrap(rmErr, "removing lock record")
		}
		if unErr := l.fl.Unlock(); unErr != nil && err == nil {
			err = errors.Wrap(unErr, "releasing lock")
		}
	})
	return err
}

// Probe reports whether a live process holds the lock for dir, and its
// record when it does.
func Probe(dir string) (Record, bool, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Record{}, false, nil
	}
	fl := flock.New(filepath.Join(dir, LockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return Record{}, false, errors.Wrap(err, "probing lock")
	}
	if locked {
		_ = fl.Unlock()
		return Record{}, false, nil
	}

	var rec Record
	if err := fileutil.ReadYAML(filepath.Join(dir, RecordFileName), &rec); err != nil {
		return Record{}, true, errors.Wrap(err, "reading lock record")
	}
	return rec, true, nil
}
