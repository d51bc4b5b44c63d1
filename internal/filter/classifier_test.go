package filter

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Category
	}{
		{
			name: "metavalue conversion warning",
			line: "../rtl/hex_pkg.vhd:88:9:@4ns:(assertion warning): NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0",
			want: CategoryMetavalueWarning,
		},
		{
			name: "arithmetic operand warning",
			line: "There is an 'U'|'X'|'W'|'Z'|'-' in an arithmetic operand, the result will be 'X'(es).",
			want: CategoryMetavalueWarning,
		},
		{
			name: "null argument warning",
			line: "NUMERIC_STD.TO_UNSIGNED: null argument detected, returning NAU",
			want: CategoryNullWarning,
		},
		{
			name: "time zero assertion",
			line: "../tb/tb_top.vhd:44:5:@0ms:(assertion warning): condition not yet stable",
			want: CategoryInitWarning,
		},
		{
			name: "metavalue wins over time zero",
			line: "../rtl/hex_pkg.vhd:88:9:@0ns:(assertion warning): NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0",
			want: CategoryMetavalueWarning,
		},
		{
			name: "ghdl info channel",
			line: "ghdl:info: simulation stopped by --stop-time @80ns",
			want: CategoryInternalMessage,
		},
		{
			name: "elaboration notice",
			line: "elaboration completed",
			want: CategoryInternalMessage,
		},
		{
			name: "vpi registration",
			line: "     -.--ns INFO     gpi                                GpiCommon.cpp:101  in gpi_print_registered_impl       VPI registered",
			want: CategoryInternalMessage,
		},
		{
			name: "back annotation notice",
			line: "back-annotation not supported for this design",
			want: CategoryInternalMessage,
		},
		{
			name: "cocotb version banner",
			line: "Running on GHDL version 4.1.0",
			want: CategoryInternalMessage,
		},
		{
			name: "random seed banner",
			line: "Seeding Python random module with 1692962020",
			want: CategoryInternalMessage,
		},
		{
			name: "error token preserved",
			line: "ERROR: timeout waiting for ready",
			want: CategoryPreserve,
		},
		{
			name: "failure wins over bound check",
			line: "bound check failure at ../rtl/decoder.vhd:102",
			want: CategoryPreserve,
		},
		{
			name: "bound check notice alone is internal",
			line: "ghdl:info: bound check at elaboration",
			want: CategoryInternalMessage,
		},
		{
			name: "error wins over metavalue",
			line: "ERROR: metavalue detected in checker output",
			want: CategoryPreserve,
		},
		{
			name: "error wins over elaboration",
			line: "error during elaboration of design unit tb_top",
			want: CategoryPreserve,
		},
		{
			name: "pass summary row",
			line: "** test_hexconv.test_conversions    PASS         120.00",
			want: CategoryPreserve,
		},
		{
			name: "python assertion",
			line: "AssertionError: expected 0x3C, got 0x00",
			want: CategoryPreserve,
		},
		{
			name: "test section header",
			line: "T1: zero vector",
			want: CategoryPreserve,
		},
		{
			name: "commented test header",
			line: "# Test 2: round trip",
			want: CategoryPreserve,
		},
		{
			name: "test progress line",
			line: "     0.00ns INFO     cocotb.regression  running test_conversions (1/3)",
			want: CategoryPreserve,
		},
		{
			name: "separator line",
			line: "**************************************************",
			want: CategoryPreserve,
		},
		{
			name: "check mark glyph",
			line: "  ✓ conversion round trip",
			want: CategoryPreserve,
		},
		{
			name: "user diagnostic falls through",
			line: "Testing byte 0x3C",
			want: CategoryOtherNoise,
		},
		{
			name: "empty line falls through",
			line: "",
			want: CategoryOtherNoise,
		},
		{
			name: "invalid utf8 falls through",
			line: "metavalue detected \xff\xfe",
			want: CategoryOtherNoise,
		},
		{
			name: "nonzero time marker is not initialization",
			line: "../tb/tb_top.vhd:44:5:@25ns:(assertion warning): condition not yet stable",
			want: CategoryOtherNoise,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	line := "NUMERIC_STD.TO_INTEGER: metavalue detected, returning 0"
	first := Classify(line)
	for i := 0; i < 5; i++ {
		if got := Classify(line); got != first {
			t.Fatalf("Classify changed between calls: got %v, want %v", got, first)
		}
	}
}
