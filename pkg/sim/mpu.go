package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
)

// MPUAddr is the sensor's 7-bit bus address.
const MPUAddr byte = 0x68

// RegWrite records one register write received by the sensor.
type RegWrite struct {
	Reg byte
	Val byte
}

// MPU6050 models the motion sensor. It answers both as a Target on
// the modeled bus port and directly as an i2c.Bus, so driver code can
// be exercised with or without the controller underneath.
//
// The model powers up asleep, like the part.
type MPU6050 struct {
	// Quiet makes the sensor stop acknowledging, as if unwired.
	Quiet bool

	nacks  int
	ptr    byte
	await  bool
	regs   map[byte]byte
	writes []RegWrite
	accel  [3]int16
	temp   int16
	gyro   [3]int16
}

// NewMPU6050 creates the model.
func NewMPU6050() *MPU6050 {
	return &MPU6050{regs: map[byte]byte{0x6b: 0x40}}
}

// SetAccel sets the accelerometer sample registers.
func (m *MPU6050) SetAccel(x, y, z int16) { m.accel = [3]int16{x, y, z} }

// SetGyro sets the gyroscope sample registers.
func (m *MPU6050) SetGyro(x, y, z int16) { m.gyro = [3]int16{x, y, z} }

// SetTemp sets the temperature sample register.
func (m *MPU6050) SetTemp(t int16) { m.temp = t }

// FailNext makes the sensor not acknowledge the next n transactions.
func (m *MPU6050) FailNext(n int) { m.nacks = n }

// Reg returns the current value of a configuration register.
func (m *MPU6050) Reg(r byte) byte { return m.regs[r] }

// Writes returns the register writes received so far.
func (m *MPU6050) Writes() []RegWrite { return m.writes }

func (m *MPU6050) nack() bool {
	if m.nacks > 0 {
		m.nacks--
		return true
	}
	return m.Quiet
}

func (m *MPU6050) readReg(r byte) byte {
	if r == 0x75 {
		return 0x68
	}
	if r >= 0x3b && r <= 0x48 {
		return m.sample(int(r - 0x3b))
	}
	return m.regs[r]
}

// sample returns byte i of the burst-readable measurement block,
// big-endian within each 16-bit register pair.
func (m *MPU6050) sample(i int) byte {
	var v int16
	switch {
	case i < 6:
		v = m.accel[i/2]
	case i < 8:
		v = m.temp
	default:
		v = m.gyro[(i-8)/2]
	}
	if i%2 == 0 {
		return byte(uint16(v) >> 8)
	}
	return byte(uint16(v))
}

func (m *MPU6050) writeReg(r, b byte) {
	m.writes = append(m.writes, RegWrite{r, b})
	m.regs[r] = b
}

// Ack implements Target.
func (m *MPU6050) Ack() bool { return !m.nack() }

// Start implements Target. A write transfer begins with the register
// pointer byte.
func (m *MPU6050) Start(read bool) {
	if !read {
		m.await = true
	}
}

// WriteByte implements Target.
func (m *MPU6050) WriteByte(b byte) {
	if m.await {
		m.ptr, m.await = b, false
		return
	}
	m.writeReg(m.ptr, b)
	m.ptr++
}

// ReadByte implements Target. The register pointer auto increments.
func (m *MPU6050) ReadByte(last bool) byte {
	b := m.readReg(m.ptr)
	m.ptr++
	return b
}

// Stop implements Target.
func (m *MPU6050) Stop() { m.await = false }

// Write implements i2c.Bus.
func (m *MPU6050) Write(addr byte, buf []byte) error {
	if addr != MPUAddr || m.nack() {
		return i2c.ErrNack
	}
	if len(buf) == 0 {
		return nil
	}
	m.ptr = buf[0]
	for _, b := range buf[1:] {
		m.writeReg(m.ptr, b)
		m.ptr++
	}
	return nil
}

// WriteRead implements i2c.Bus.
func (m *MPU6050) WriteRead(addr byte, w, r []byte) error {
	if addr != MPUAddr || m.nack() {
		return i2c.ErrNack
	}
	if len(w) > 0 {
		m.ptr = w[0]
		for _, b := range w[1:] {
			m.writeReg(m.ptr, b)
			m.ptr++
		}
	}
	for i := range r {
		r[i] = m.readReg(m.ptr)
		m.ptr++
	}
	return nil
}
