package i2c

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
)

// Regs is the register block of an I2C master peripheral.
type Regs struct {
	CR1   hw.Reg
	CR2   hw.Reg
	SR1   hw.Reg
	SR2   hw.Reg
	DR    hw.Reg
	CCR   hw.Reg
	TRISE hw.Reg
}

// RegsAt lays out the register block at base.
func RegsAt(base hw.Addr) Regs {
	return Regs{
		CR1:   hw.Reg{Name: "I2C_CR1", Addr: base + 0x00},
		CR2:   hw.Reg{Name: "I2C_CR2", Addr: base + 0x04},
		DR:    hw.Reg{Name: "I2C_DR", Addr: base + 0x10},
		SR1:   hw.Reg{Name: "I2C_SR1", Addr: base + 0x14},
		SR2:   hw.Reg{Name: "I2C_SR2", Addr: base + 0x18, Access: hw.RO},
		CCR:   hw.Reg{Name: "I2C_CCR", Addr: base + 0x1c},
		TRISE: hw.Reg{Name: "I2C_TRISE", Addr: base + 0x20},
	}
}

// CR1 bits
const (
	PE    = 1 << 0
	START = 1 << 8
	STOP  = 1 << 9
	ACK   = 1 << 10
)

// SR1 bits
const (
	SB   = 1 << 0
	ADDR = 1 << 1
	BTF  = 1 << 2
	RXNE = 1 << 6
	TXE  = 1 << 7
	AF   = 1 << 10
)

// DefaultSpins bounds each flag wait. The bound is a spin count, not
// wall time: each spin is one observable status read.
const DefaultSpins = 100000

// Controller is a register-level I2C master over the peripheral bus.
// It implements Bus. All transactions run on the control loop
// goroutine; the flag protocol is strictly ordered register accesses.
type Controller struct {
	Bus   hw.Bus
	Regs  Regs
	Spins int
}

// NewController creates a Controller with the default wait bound.
func NewController(b hw.Bus, regs Regs) *Controller {
	return &Controller{Bus: b, Regs: regs, Spins: DefaultSpins}
}

// Enable configures bus timing and enables the peripheral.
// pclkMHz is the peripheral clock in MHz; the bus runs in standard
// mode at 100 kHz.
func (c *Controller) Enable(pclkMHz uint32) error {
	c.Regs.CR1.ClrBits(c.Bus, PE)
	c.Regs.CR2.Write(c.Bus, pclkMHz&0x3f)
	c.Regs.CCR.Write(c.Bus, pclkMHz*5) // Tlow+Thigh = 10us
	c.Regs.TRISE.Write(c.Bus, pclkMHz+1)
	c.Regs.CR1.SetBits(c.Bus, PE)
	if c.Regs.CR1.Read(c.Bus)&PE == 0 {
		return &hw.InitError{Periph: "i2c", Stage: "enable", Err: hw.ErrNotReady}
	}
	return nil
}

// Write implements Bus.
func (c *Controller) Write(addr byte, buf []byte) error {
	if err := c.open(addr, false); err != nil {
		return err
	}
	for _, b := range buf {
		if err := c.wait(TXE); err != nil {
			return c.abort(err)
		}
		c.Regs.DR.Write(c.Bus, uint32(b))
	}
	if err := c.wait(BTF); err != nil {
		return c.abort(err)
	}
	c.stop()
	return nil
}

// WriteRead implements Bus.
func (c *Controller) WriteRead(addr byte, w, r []byte) error {
	if err := c.open(addr, false); err != nil {
		return err
	}
	for _, b := range w {
		if err := c.wait(TXE); err != nil {
			return c.abort(err)
		}
		c.Regs.DR.Write(c.Bus, uint32(b))
	}
	if err := c.wait(BTF); err != nil {
		return c.abort(err)
	}
	// repeated start, reopen for receiving
	if len(r) > 1 {
		c.Regs.CR1.SetBits(c.Bus, ACK)
	}
	if err := c.open(addr, true); err != nil {
		return err
	}
	for i := range r {
		if i+1 == len(r) {
			// NACK the final byte and queue the stop condition
			// before pulling it from the data register
			c.Regs.CR1.ClrBits(c.Bus, ACK)
			c.Regs.CR1.SetBits(c.Bus, STOP)
		}
		if err := c.wait(RXNE); err != nil {
			return c.abort(err)
		}
		r[i] = byte(c.Regs.DR.Read(c.Bus))
	}
	return nil
}

// open issues a (repeated) start and addresses the device.
func (c *Controller) open(addr byte, read bool) error {
	c.Regs.CR1.SetBits(c.Bus, START)
	if err := c.wait(SB); err != nil {
		return c.abort(err)
	}
	sel := uint32(addr) << 1
	if read {
		sel |= 1
	}
	c.Regs.DR.Write(c.Bus, sel)
	if err := c.waitAddr(); err != nil {
		return c.abort(err)
	}
	// ADDR is cleared by the SR1 read in waitAddr followed by SR2
	c.Regs.SR2.Read(c.Bus)
	return nil
}

// wait polls SR1 until mask bits set, bounded by Spins.
func (c *Controller) wait(mask uint32) error {
	for i := 0; i < c.Spins; i++ {
		if c.Regs.SR1.Read(c.Bus)&mask != 0 {
			return nil
		}
	}
	return ErrTimeout
}

// waitAddr polls for address acknowledge, distinguishing NACK.
func (c *Controller) waitAddr() error {
	for i := 0; i < c.Spins; i++ {
		sr1 := c.Regs.SR1.Read(c.Bus)
		if sr1&AF != 0 {
			c.Regs.SR1.ClrBits(c.Bus, AF)
			return ErrNack
		}
		if sr1&ADDR != 0 {
			return nil
		}
	}
	return ErrTimeout
}

// abort releases the bus after a failed transaction.
func (c *Controller) abort(err error) error {
	c.stop()
	return err
}

func (c *Controller) stop() {
	c.Regs.CR1.SetBits(c.Bus, STOP)
}
