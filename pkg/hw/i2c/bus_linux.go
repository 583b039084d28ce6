package i2c

import (
	"os"
	"sync"
	"syscall"

	d2r2 "github.com/d2r2/go-i2c"
)

// LinuxBus is a Bus backed by a Linux I2C character device
// (/dev/i2c-N), for running drivers against physical hardware.
type LinuxBus struct {
	BusNo int

	lock  sync.Mutex
	conns map[byte]*d2r2.I2C
}

// OpenLinux creates a LinuxBus on bus number busNo.
func OpenLinux(busNo int) *LinuxBus {
	return &LinuxBus{BusNo: busNo, conns: make(map[byte]*d2r2.I2C)}
}

// Write implements Bus.
func (b *LinuxBus) Write(addr byte, buf []byte) error {
	conn, err := b.conn(addr)
	if err != nil {
		return err
	}
	_, err = conn.WriteBytes(buf)
	return mapErr(err)
}

// WriteRead implements Bus.
func (b *LinuxBus) WriteRead(addr byte, w, r []byte) error {
	conn, err := b.conn(addr)
	if err != nil {
		return err
	}
	if _, err = conn.WriteBytes(w); err != nil {
		return mapErr(err)
	}
	if _, err = conn.ReadBytes(r); err != nil {
		return mapErr(err)
	}
	return nil
}

// Close releases all device handles.
func (b *LinuxBus) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	for addr, conn := range b.conns {
		conn.Close()
		delete(b.conns, addr)
	}
	return nil
}

func (b *LinuxBus) conn(addr byte) (*d2r2.I2C, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if conn := b.conns[addr]; conn != nil {
		return conn, nil
	}
	conn, err := d2r2.NewI2C(addr, b.BusNo)
	if err != nil {
		return nil, err
	}
	b.conns[addr] = conn
	return conn, nil
}

// mapErr folds kernel error codes into bus error values.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch errnoOf(err) {
	case syscall.ENXIO, syscall.EREMOTEIO:
		return ErrNack
	case syscall.ETIMEDOUT:
		return ErrTimeout
	}
	return err
}

func errnoOf(err error) syscall.Errno {
	switch e := err.(type) {
	case syscall.Errno:
		return e
	case *os.PathError:
		return errnoOf(e.Err)
	case *os.SyscallError:
		return errnoOf(e.Err)
	}
	return 0
}
