package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// FindUsedLabels
// ---------------------------------------------------------------------------

func TestFindUsedLabels(t *testing.T) {
	doc := "\tjmp .LBB0_2\n" +
		"\tjne\t.L3\n" +
		"\tcall .L4\n" +
		" jmp .Lfoo\n" +
		"\tjmp .L_bad\n" +
		"\tjmp .LBB0_2\n" +
		"\tmovq .L5, %rax\n"

	used := FindUsedLabels(doc)
	assert.Equal(t, []string{".L3", ".LBB0_2", ".Lfoo"}, used.Sorted())
}

func TestFindUsedLabels_OneMatchPerLine(t *testing.T) {
	used := FindUsedLabels("\tjmp .L1 .L2\n")
	assert.True(t, used.Has(".L1"))
	assert.False(t, used.Has(".L2"))
}

func TestFindUsedLabels_Empty(t *testing.T) {
	assert.Empty(t, FindUsedLabels(""))
}

// ---------------------------------------------------------------------------
// NormalizeLabels
// ---------------------------------------------------------------------------

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		rewritten bool
	}{
		{
			name:  "no declarations",
			input: "\tmovl $0, %eax\n\tret\n",
			want:  "\tmovl $0, %eax\n\tret\n",
		},
		{
			name:      "undotted declarations and references",
			input:     "L1:\n\tjmp L1\nL2:\n",
			want:      ".L1:\n\tjmp .L1\n.L2:\n",
			rewritten: true,
		},
		{
			name:      "prefix names are not confused",
			input:     "L1:\nL10:\n\tjne L10\n",
			want:      ".L1:\n.L10:\n\tjne .L10\n",
			rewritten: true,
		},
		{
			name:      "embedded names are left alone",
			input:     "L1:\n\tmovq xL1, %rax\n\tleaq L1(%rip), %rdi\n",
			want:      ".L1:\n\tmovq xL1, %rax\n\tleaq L1(%rip), %rdi\n",
			rewritten: true,
		},
		{
			name:  "already dotted",
			input: ".LBB0_1:\n\tjmp .LBB0_1\n",
			want:  ".LBB0_1:\n\tjmp .LBB0_1\n",
		},
		{
			name:      "reference at end of document without newline",
			input:     "L1:\n\tjmp L1",
			want:      ".L1:\n\tjmp L1",
			rewritten: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, report := NormalizeLabels(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.rewritten, report.Rewritten)
			assert.False(t, report.Mixed)
		})
	}
}

func TestNormalizeLabels_Report(t *testing.T) {
	_, report := NormalizeLabels("L2:\nL1:\nL2:\n")
	assert.Equal(t, []string{"L2", "L1"}, report.Declared)
	assert.Equal(t, "L2", report.Sampled)
}

func TestNormalizeLabels_MixedConventionIsDeterministic(t *testing.T) {
	input := "L1:\n.L2:\n\tjmp .L2\n\tjmp L1\n"

	got, report := NormalizeLabels(input)
	require.True(t, report.Mixed)
	assert.Equal(t, "L1", report.Sampled)
	// The dotted name is used as a pattern too, so its declaration gains a
	// second dot. This is the documented outcome, not a repair.
	assert.Equal(t, ".L1:\n..L2:\n\tjmp ..L2\n\tjmp .L1\n", got)

	again, _ := NormalizeLabels(input)
	assert.Equal(t, got, again)
}

func TestNormalizeLabels_MixedDottedSampleLeavesDocument(t *testing.T) {
	input := ".L1:\nL2:\n"
	got, report := NormalizeLabels(input)
	assert.True(t, report.Mixed)
	assert.False(t, report.Rewritten)
	assert.Equal(t, input, got)
}

// ---------------------------------------------------------------------------
// EliminateDeadLabels
// ---------------------------------------------------------------------------

func TestEliminateDeadLabels(t *testing.T) {
	input := ".L1:\n\tjmp .L1\n.L2:\n\tret\nL3:\n"
	// Only dotted declarations are candidates; "L3:" is untouched.
	assert.Equal(t, ".L1:\n\tjmp .L1\n\tret\nL3:\n", EliminateDeadLabels(input))
}

func TestEliminateDeadLabels_Empty(t *testing.T) {
	assert.Equal(t, "", EliminateDeadLabels(""))
}
