package sbi

// Halt parks the calling hart in a wait-for-interrupt loop and never
// returns. Implemented in halt_riscv64.s as a tight wfi loop; since this
// kernel never unmasks interrupts after a fatal halt, the loop is
// effectively permanent.
func Halt()
