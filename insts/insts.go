// Package insts provides instruction word definitions and decoding for the
// simulated 5-stage data path.
//
// The instruction set is deliberately tiny. It supports:
//   - the all-zero no-op word
//   - register-format add and subtract (opcode 0x00, function 0x20/0x22)
//   - load (opcode 0x20) and store (opcode 0x28) with a 16-bit signed offset
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00221820) // add $3, $1, $2
//	fmt.Printf("Class: %v, Rd: %d, Rs: %d, Rt: %d\n", inst.Class, inst.WriteRegR, inst.ReadReg1, inst.ReadReg2)
package insts
