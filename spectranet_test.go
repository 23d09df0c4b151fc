// spectranet_test.go - Tests for the Spectranet ROMCS paging and socket
// command/status port contract.

package main

import "testing"

func newTestSpectranet() (*Spectranet, *MemoryMap) {
	mem := NewMemoryMap(NewScheduler())
	rom0 := make([]byte, PageSize)
	rom0[0] = 0xAA
	mem.Map(0, Page{Buffer: rom0, Source: SourceROM, Writable: false})
	s := NewSpectranet(mem)
	s.LoadROM([]byte{0xDE, 0xAD})
	return s, mem
}

func TestSpectranetControlPortPagesROMInAndOut(t *testing.T) {
	s, mem := newTestSpectranet()

	if s.PagedIn() {
		t.Fatalf("card should start paged out")
	}

	s.writeControl(0x01)
	if !s.PagedIn() {
		t.Fatalf("control write with bit0 set should page the card ROM in")
	}
	if got := mem.ReadPage(0).Buffer[0]; got != 0xDE {
		t.Fatalf("slot 0 byte 0 = %#02x, want 0xDE (card ROM)", got)
	}
	if s.readControl()&0x01 == 0 {
		t.Fatalf("readControl should report paged-in status")
	}

	s.writeControl(0x00)
	if s.PagedIn() {
		t.Fatalf("control write with bit0 clear should page the card ROM out")
	}
	if got := mem.ReadPage(0).Buffer[0]; got != 0xAA {
		t.Fatalf("slot 0 byte 0 = %#02x, want 0xAA (restored machine ROM)", got)
	}
}

func TestSpectranetSocketCommandDrivesStatus(t *testing.T) {
	s, _ := newTestSpectranet()

	s.writeSocketCommand(wizCmdOpen)
	if s.readSocketStatus() != wizStatusInit {
		t.Fatalf("status after OPEN = %#02x, want %#02x", s.readSocketStatus(), wizStatusInit)
	}

	s.writeSocketCommand(wizCmdConnect)
	if s.readSocketStatus() != wizStatusEstablished {
		t.Fatalf("status after CONNECT = %#02x, want %#02x", s.readSocketStatus(), wizStatusEstablished)
	}

	s.writeSocketCommand(wizCmdClose)
	if s.readSocketStatus() != wizStatusClosed {
		t.Fatalf("status after CLOSE = %#02x, want %#02x", s.readSocketStatus(), wizStatusClosed)
	}
}

func TestSpectranetPortsRouteToControlAndSocket(t *testing.T) {
	s, _ := newTestSpectranet()
	ports := s.Ports()
	if len(ports) != 2 {
		t.Fatalf("Ports() returned %d entries, want 2", len(ports))
	}

	ports[0].Write(0x00DD, 0x01)
	if !s.PagedIn() {
		t.Fatalf("writing the control port did not page the ROM in")
	}
	v, ok := ports[0].Read(0x00DD)
	if !ok || v&0x01 == 0 {
		t.Fatalf("reading the control port did not reflect paged-in state")
	}

	ports[1].Write(0x01DD, wizCmdOpen)
	v, ok = ports[1].Read(0x01DD)
	if !ok || v != wizStatusInit {
		t.Fatalf("socket status port = %#02x, want %#02x", v, wizStatusInit)
	}
}
