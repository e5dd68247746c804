package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/specmill/specmill/internal/corpus"
)

// SampleDocTitle names the built-in demonstration document.
const SampleDocTitle = "sample-interconnect-spec"

// Sample runs the full pipeline on a built-in synthetic document, so the
// tool can be exercised end to end without a PDF on hand.
func (p *Pipeline) Sample(ctx context.Context, outDir string) (*RunSummary, error) {
	pages := samplePages()
	info := &corpus.DocumentInfo{
		Title:      SampleDocTitle,
		TotalPages: len(pages),
	}
	return p.runFromPages(ctx, info, "(built-in sample)", outDir, pages, time.Now())
}

// samplePages fabricates a small spec-like document: a two-page ToC
// followed by content pages with section headers, a table, and a state
// machine description.
func samplePages() []corpus.PageRecord {
	texts := []string{
		// Page 1: ToC start
		"Table of Contents\n\n" +
			"1 Introduction .......................... 3\n" +
			"1.1 Purpose .......................... 3\n" +
			"1.2 Scope .......................... 4\n" +
			"2 Protocol Overview .......................... 5\n" +
			"2.1 Message Format .......................... 5\n" +
			"2.2 Link State Behavior .......................... 6\n",
		// Page 2: ToC continuation
		"3 Electrical Requirements .......................... 8\n" +
			"Table 3-1: Pin Assignments .......................... 9\n" +
			"Appendix A: Message Examples .......................... 10\n" +
			"References .......................... 12\n",
		// Page 3
		"1 Introduction\n\n" +
			"This document defines the interconnect protocol used between " +
			"compliant devices. It covers message formats, link state rules, " +
			"and electrical requirements that every implementation shall satisfy.\n\n" +
			"1.1 Purpose\n\n" +
			"The purpose of this document is to give implementers a single " +
			"normative reference for building interoperable devices. The protocol " +
			"described here supports negotiation between a source and a sink over " +
			"a shared communication channel.",
		// Page 4
		"1.2 Scope\n\n" +
			"This revision covers the baseline protocol only. Optional extensions " +
			"and vendor defined messages are out of scope and may be specified in " +
			"a separate engineering change notice. The requirements in this " +
			"document apply to all ports that expose the interconnect interface.",
		// Page 5
		"2 Protocol Overview\n\n" +
			"The protocol exchanges structured messages between port partners.\n\n" +
			"2.1 Message Format\n\n" +
			"Every message starts with a 16 bit header followed by zero or more " +
			"32 bit data objects.\n\n" +
			"    struct header {\n" +
			"        uint16 message_type;\n" +
			"        uint16 data_objects;\n" +
			"    }\n\n" +
			"The header encodes the message type, the revision, and the number " +
			"of data objects that follow. A request shall receive a response " +
			"within the timeout specified for the transaction.",
		// Page 6
		"2.2 Link State Behavior\n\n" +
			"The link operates as a state machine. From the idle state a " +
			"transition to the active state occurs when a valid packet arrives. " +
			"On timeout the machine shall enter the recovery state and restart " +
			"negotiation. A transition from recovery back to idle happens after " +
			"the link settles.",
		// Page 7
		"The state machine transitions are summarized below. Each state entry " +
			"action is executed exactly once. Exit from the active state occurs " +
			"on detach or on a hard reset condition signaled by the partner.",
		// Page 8
		"3 Electrical Requirements\n\n" +
			"All signals shall meet the voltage and timing limits in this " +
			"chapter. Receivers shall tolerate the maximum specified voltage " +
			"on any pin without damage. Termination values apply at the " +
			"connector interface unless stated otherwise.",
		// Page 9
		"Pin assignments are given in Table 3-1.\n\n" +
			"| Pin | Name | Description |\n" +
			"| A1  | GND  | Ground return |\n" +
			"| A2  | TX+  | Transmit positive |\n" +
			"| A3  | TX-  | Transmit negative |\n" +
			"| A4  | VBUS | Bus power |\n",
		// Page 10
		"Appendix A: Message Examples\n\n" +
			"The following examples show complete request and response " +
			"exchanges. Each example lists the raw header fields and the " +
			"decoded meaning of every data object in transmission order.",
		// Page 11
		"Example 2 shows a negotiation that ends in the recovery state. The " +
			"sequence demonstrates how a device recovers from a missing " +
			"response without dropping bus power.",
		// Page 12
		"References\n\n" +
			"[1] Interconnect Cable and Connector Specification, Revision 2.1\n" +
			"[2] Power Delivery Specification, Revision 3.1\n",
	}

	pages := make([]corpus.PageRecord, len(texts))
	for i, text := range texts {
		pages[i] = corpus.PageRecord{
			PageNumber: i + 1,
			Text:       text,
			Confidence: corpus.TextQuality(text),
			Method:     "sample",
		}
		if strings.Contains(text, "| Pin |") {
			pages[i].Tables = [][][]string{{
				{"Pin", "Name", "Description"},
				{"A1", "GND", "Ground return"},
				{"A2", "TX+", "Transmit positive"},
				{"A3", "TX-", "Transmit negative"},
				{"A4", "VBUS", "Bus power"},
			}}
		}
	}
	return pages
}
