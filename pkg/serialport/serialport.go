// Package serialport enumerates and opens serial devices.
package serialport

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes one serial port found on the system.
type PortInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	IsUSB        bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// Label returns the description, falling back to "N/A".
func (p PortInfo) Label() string {
	parts := make([]string, 0, 2)
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if p.Manufacturer != "" && !strings.Contains(strings.ToLower(p.Description), strings.ToLower(p.Manufacturer)) {
		parts = append(parts, "("+p.Manufacturer+")")
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " ")
}

// Enumerator lists serial ports.
type Enumerator interface {
	Ports() ([]PortInfo, error)
}

// SystemEnumerator lists the ports present on this machine.
type SystemEnumerator struct{}

// Ports implements Enumerator. Results are sorted by port name.
func (SystemEnumerator) Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, fromDetails(d))
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

func fromDetails(d *enumerator.PortDetails) PortInfo {
	p := PortInfo{
		Name:         d.Name,
		Description:  d.Product,
		IsUSB:        d.IsUSB,
		SerialNumber: d.SerialNumber,
	}
	if d.IsUSB {
		p.VID = strings.ToLower(d.VID)
		p.PID = strings.ToLower(d.PID)
		p.Manufacturer = VendorName(p.VID)
	}
	return p
}

// knownVendors maps USB vendor IDs of common debug probes and
// USB-serial bridges to manufacturer names.
var knownVendors = map[string]string{
	"0483": "STMicroelectronics",
	"1366": "SEGGER",
	"0403": "FTDI",
	"10c4": "Silicon Labs",
	"1a86": "QinHeng Electronics",
	"067b": "Prolific",
	"2341": "Arduino",
	"0d28": "ARM DAPLink",
	"2e8a": "Raspberry Pi",
	"303a": "Espressif",
}

// VendorName returns the manufacturer for a USB vendor ID, or "" if it is
// not known.
func VendorName(vid string) string {
	return knownVendors[strings.ToLower(vid)]
}

// Port is an open serial connection.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Open opens name at baud, 8 data bits, no parity, one stop bit. Reads
// return (0, nil) after readTimeout without data so callers can poll.
func Open(name string, baud int, readTimeout time.Duration) (Port, error) {
	if baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", baud)
	}

	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s at %d baud: %w", name, baud, err)
	}

	if readTimeout > 0 {
		if err := p.SetReadTimeout(readTimeout); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("configuring %s: %w", name, err)
		}
	}
	return p, nil
}
