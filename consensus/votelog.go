// Package consensus implements the PBFT-style phase state machine,
// durable vote logging, and quorum counting, per spec §4.9. Grounded on
// the teacher's pbft/pbft.go handlePrePrepare/handlePrepare/handleCommit
// and on original_source/consensus/pbft.cpp's quorumSize formula and exact
// IDLE->PREPARE->COMMIT->FINALIZED transitions.
package consensus

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/aegenchain/aegen-core/aerr"
	"github.com/aegenchain/aegen-core/types"
)

// VoteLog is the per-node append-only, fsync'd vote record used for crash
// recovery, per spec §6's vote log wire format:
// TYPE|voterId|hex(blockHash)|approve
type VoteLog struct {
	f *os.File
}

// OpenVoteLog opens (creating if absent) the vote log file at path.
func OpenVoteLog(path string) (*VoteLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("consensus: open vote log: %w: %v", aerr.ErrStorage, err)
	}
	return &VoteLog{f: f}, nil
}

func (vl *VoteLog) Close() error { return vl.f.Close() }

// Append writes one record and fsyncs before returning, so the write
// happens-before the in-memory tally increment it causes, per spec §5's
// ordering guarantee. A fsync failure is a FatalError — the node halts
// rather than risk equivocation.
func (vl *VoteLog) Append(phase types.Phase, voterID string, blockHash [32]byte, approve bool) error {
	approveBit := "0"
	if approve {
		approveBit = "1"
	}
	line := fmt.Sprintf("%s|%s|%s|%s\n", phase, voterID, hex.EncodeToString(blockHash[:]), approveBit)
	if _, err := vl.f.WriteString(line); err != nil {
		return fmt.Errorf("consensus: vote log write: %w: %v", aerr.ErrFatal, err)
	}
	if err := vl.f.Sync(); err != nil {
		return fmt.Errorf("consensus: vote log fsync: %w: %v", aerr.ErrFatal, err)
	}
	return nil
}

// Record is one parsed vote-log line.
type Record struct {
	Phase     types.Phase
	VoterID   string
	BlockHash [32]byte
	Approve   bool
}

// ReplayVoteLog reads every record in the log, in order, for crash recovery.
func ReplayVoteLog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consensus: replay vote log: %w: %v", aerr.ErrStorage, err)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 4 {
			continue
		}
		var bh [32]byte
		raw, err := hex.DecodeString(parts[2])
		if err != nil || len(raw) != 32 {
			continue
		}
		copy(bh[:], raw)
		out = append(out, Record{
			Phase:     types.Phase(parts[0]),
			VoterID:   parts[1],
			BlockHash: bh,
			Approve:   parts[3] == "1",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("consensus: replay vote log: %w: %v", aerr.ErrStorage, err)
	}
	return out, nil
}
