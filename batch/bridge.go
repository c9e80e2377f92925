package batch

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"
)

// L1Result mirrors the external L1 submitter's opaque response shape, per
// spec §6.
type L1Result struct {
	Success    bool
	RequestKey string
	Error      string
}

// L1Submitter is the external collaborator contract: it receives
// (batchId, stateRootHex, blockCount) and returns an L1Result. The core
// treats it as opaque; settlement outcomes never affect local finality.
type L1Submitter interface {
	Submit(ctx context.Context, batchID, stateRootHex string, blockCount uint64) (L1Result, error)
}

// SubmitTimeout is the connect+response timeout for L1 submissions, per
// spec §5.
const SubmitTimeout = 10 * time.Second

// Bridge formats and hands settlement commands to the external L1
// submitter, running detached so it can never block consensus.
type Bridge struct {
	Submitter L1Submitter
}

func NewBridge(submitter L1Submitter) *Bridge {
	return &Bridge{Submitter: submitter}
}

// GeneratePactCmd builds the s-expression-flavored settlement command
// string, matching Kadena/Pact's calling convention as fixed in
// original_source/settlement/bridge.cpp generatePactCmd.
func GeneratePactCmd(batchID, batchRootHex string, blockCount, startHeight, endHeight uint64) string {
	return fmt.Sprintf("(aegen.submit-batch %q %q %d %d %d)", batchID, batchRootHex, blockCount, startHeight, endHeight)
}

// Settle submits (batchID, hex(batchRoot), blockCount) to the external L1
// collaborator. It also builds the Pact-style command string for the batch,
// but that string is not passed to the submitter or returned. It is
// expected to be run in a detached goroutine by the caller (spec §5: "runs
// detached so it cannot block consensus").
func (br *Bridge) Settle(ctx context.Context, batchID string, batchRoot [32]byte, blockCount, startHeight, endHeight uint64) (L1Result, error) {
	ctx, cancel := context.WithTimeout(ctx, SubmitTimeout)
	defer cancel()

	rootHex := hex.EncodeToString(batchRoot[:])
	_ = GeneratePactCmd(batchID, rootHex, blockCount, startHeight, endHeight) // built but discarded; the submitter receives only the three values below
	return br.Submitter.Submit(ctx, batchID, rootHex, blockCount)
}
