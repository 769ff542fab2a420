package db

import "fmt"

// sampleHMM renders a minimal HMMER3 record.
func sampleHMM(name string, leng, nseq int) string {
	return fmt.Sprintf(`HMMER3/f [3.3.2 | Nov 2020]
NAME  %s
DESC  test profile
LENG  %d
ALPH  amino
RF    no
MM    no
CONS  yes
CS    no
MAP   yes
NSEQ  %d
EFFN  1.000000
CKSUM 123456
STATS LOCAL MSV      -9.9014  0.70957
HMM          A        C        D        E        F        G        H        I        K        L        M        N        P        Q        R        S        T        V        W        Y
            m->m     m->i     m->d     i->m     i->i     d->m     d->d
  COMPO   2.68618  4.42225  2.77519  2.73123  3.46354  2.40513  3.72494  3.29354  2.67741  2.69355  4.24690  2.90347  2.73739  3.18146  2.89801  2.37887  2.77519  2.98518  4.58477  3.61503
//
`, name, leng, nseq)
}
