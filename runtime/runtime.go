// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/piggybank"
	"github.com/ava-labs/piggybank/state"
	"github.com/ava-labs/piggybank/storage"
	"github.com/ava-labs/piggybank/tstate"
	"github.com/ava-labs/piggybank/utils"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type Config struct {
	// Contracts that may be deployed. Defaults to every built-in contract.
	Registry *piggybank.Registry
	// Call and init parameters longer than this are rejected.
	MaxParamSize int
}

func NewDefaultConfig() Config {
	return Config{MaxParamSize: 64 * 1024}
}

// Runtime owns the ledger: account balances and nonces plus every deployed
// instance. Mutating operations are applied one at a time in the order they
// acquire the lock and each is tagged with the next height.
type Runtime struct {
	cfg      Config
	log      logging.Logger
	tracer   trace.Tracer
	db       state.Store
	registry *piggybank.Registry
	metrics  *metrics

	l      sync.RWMutex
	height atomic.Uint64
}

func New(
	ctx context.Context,
	cfg Config,
	log logging.Logger,
	tracer trace.Tracer,
	db state.Store,
) (*Runtime, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	contracts := cfg.Registry
	if contracts == nil {
		contracts, err = piggybank.NewDefaultRegistry()
		if err != nil {
			return nil, nil, err
		}
	}
	height, err := storage.GetHeight(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	r := &Runtime{
		cfg:      cfg,
		log:      log,
		tracer:   tracer,
		db:       db,
		registry: contracts,
		metrics:  metrics,
	}
	r.height.Store(height)
	metrics.height.Set(float64(height))
	log.Info("runtime initialized",
		zap.Uint64("height", height),
		zap.Int("contracts", len(contracts.Contracts())),
	)
	return r, registry, nil
}

func (r *Runtime) Registry() *piggybank.Registry {
	return r.registry
}

// Height is the height of the last applied operation.
func (r *Runtime) Height() uint64 {
	return r.height.Load()
}

// commit records [height] in [view] and writes it to the database as one
// batch. The height only advances once the batch is written. Caller must hold
// the write lock.
func (r *Runtime) commit(ctx context.Context, view *tstate.TStateView, height uint64) error {
	if err := storage.SetHeight(ctx, view, height); err != nil {
		return err
	}
	if err := view.Commit(ctx, r.db); err != nil {
		return err
	}
	r.height.Store(height)
	r.metrics.height.Set(float64(height))
	return nil
}

func heightKeys() state.Keys {
	return state.Keys{string(storage.HeightKey()): state.All}
}

// Fund credits [amount] to [addr] out of thin air.
func (r *Runtime) Fund(ctx context.Context, addr codec.Address, amount uint64) (uint64, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Fund")
	defer span.End()

	r.l.Lock()
	defer r.l.Unlock()

	keys := heightKeys()
	keys.Add(string(storage.BalanceKey(addr)), state.All)
	view := tstate.NewView(r.db, keys)
	bal, err := storage.AddBalance(ctx, view, addr, amount)
	if err != nil {
		return 0, err
	}
	height := r.height.Load() + 1
	if err := r.commit(ctx, view, height); err != nil {
		return 0, err
	}
	r.metrics.funded.Add(float64(amount))
	r.log.Debug("funded account",
		zap.Stringer("address", addr),
		zap.Uint64("amount", amount),
		zap.Uint64("balance", bal),
		zap.Uint64("height", height),
	)
	return bal, nil
}

// ContractAddress is the address assigned to the instance [owner] deploys
// at [height].
func ContractAddress(owner codec.Address, height uint64) codec.Address {
	p := codec.NewWriter(codec.AddressLen+consts.Uint64Len, codec.AddressLen+consts.Uint64Len)
	p.PackAddress(owner)
	p.PackUint64(height)
	return codec.CreateAddress(consts.ContractAddressID, utils.ToID(p.Bytes()))
}

func deployKeys(addr codec.Address) state.Keys {
	keys := heightKeys()
	keys.Add(string(storage.ContractKey(addr)), state.All)
	keys.Add(string(storage.ContractStateKey(addr)), state.All)
	return keys
}

// Deploy creates a new instance of [contract] owned by [owner]. Nothing is
// stored if initialization fails.
func (r *Runtime) Deploy(ctx context.Context, owner codec.Address, contract string, params []byte) (codec.Address, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Deploy", oteltrace.WithAttributes(
		attribute.String("contract", contract),
	))
	defer span.End()

	r.l.Lock()
	defer r.l.Unlock()

	height := r.height.Load() + 1
	addr := ContractAddress(owner, height)
	view := tstate.NewView(r.db, deployKeys(addr))
	if err := r.deploy(ctx, view, addr, owner, contract, params); err != nil {
		r.log.Debug("deploy failed",
			zap.String("contract", contract),
			zap.Stringer("owner", owner),
			zap.Error(err),
		)
		return codec.EmptyAddress, err
	}
	if err := r.commit(ctx, view, height); err != nil {
		return codec.EmptyAddress, err
	}
	return addr, nil
}

func (r *Runtime) deploy(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	owner codec.Address,
	name string,
	params []byte,
) error {
	c, ok := r.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownContract, name)
	}
	if len(params) > r.cfg.MaxParamSize {
		return fmt.Errorf("%w: %d > %d", ErrParamTooLarge, len(params), r.cfg.MaxParamSize)
	}
	st, err := c.Initialize(newCallContext(owner, params))
	if err != nil {
		return err
	}
	if err := storage.SetContract(ctx, mu, addr, &storage.Contract{Name: name, Owner: owner}); err != nil {
		return err
	}
	if err := storage.SetContractState(ctx, mu, addr, st); err != nil {
		return err
	}
	r.metrics.deployments.Inc()
	r.log.Info("deployed contract",
		zap.String("contract", name),
		zap.Stringer("address", addr),
		zap.Stringer("owner", owner),
		zap.Stringer("state", st),
	)
	return nil
}

// callKeys is everything [call] may touch. [owner] is included because the
// only effect a handler can produce transfers to the owner.
func callKeys(call *Call, owner codec.Address) state.Keys {
	keys := heightKeys()
	keys.Add(string(storage.ContractKey(call.Contract)), state.Read)
	keys.Add(string(storage.ContractStateKey(call.Contract)), state.Write)
	for _, addr := range []codec.Address{call.Sender, call.Contract, owner} {
		keys.Add(string(storage.BalanceKey(addr)), state.All)
	}
	return keys
}

// Invoke runs a single call. Rejected calls are reported in the returned
// [Result] and leave no trace besides the height. The error is only set if
// the database fails.
func (r *Runtime) Invoke(ctx context.Context, call *Call) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Invoke", oteltrace.WithAttributes(
		attribute.String("entrypoint", call.Entrypoint),
		attribute.Int64("amount", int64(call.Amount)),
	))
	defer span.End()

	r.l.Lock()
	defer r.l.Unlock()

	owner, err := r.owner(ctx, call.Contract)
	if err != nil {
		return nil, err
	}
	view := tstate.NewView(r.db, callKeys(call, owner))
	height := r.height.Load() + 1
	result := r.invoke(ctx, view, call, height)
	if err := r.commit(ctx, view, height); err != nil {
		return nil, err
	}
	return result, nil
}

// owner returns the owner of [contract], or the empty address if there is
// no such instance. A missing instance is reported by [invoke].
func (r *Runtime) owner(ctx context.Context, contract codec.Address) (codec.Address, error) {
	c, err := storage.GetContract(ctx, r.db, contract)
	switch {
	case err == nil:
		return c.Owner, nil
	case isNotFound(err):
		return codec.EmptyAddress, nil
	default:
		return codec.EmptyAddress, err
	}
}

// invoke applies [call] to [view] and rolls back every write it made if it
// fails.
func (r *Runtime) invoke(ctx context.Context, view *tstate.TStateView, call *Call, height uint64) *Result {
	start := time.Now()
	restore := view.OpIndex()
	effect, err := r.execute(ctx, view, call)
	r.metrics.callLatency.Observe(float64(time.Since(start)))
	label := call.Entrypoint
	if errors.Is(err, ErrUnknownEntrypoint) || errors.Is(err, ErrInstanceNotFound) {
		label = "unknown"
	}
	r.metrics.calls.WithLabelValues(label, outcome(err == nil)).Inc()

	result := newResult(height, err)
	if err != nil {
		view.Rollback(ctx, restore)
		r.log.Debug("call failed",
			zap.Stringer("contract", call.Contract),
			zap.String("entrypoint", call.Entrypoint),
			zap.Stringer("sender", call.Sender),
			zap.Uint64("height", height),
			zap.Error(err),
		)
		return result
	}
	result.Effect = effect
	r.log.Debug("call succeeded",
		zap.Stringer("contract", call.Contract),
		zap.String("entrypoint", call.Entrypoint),
		zap.Stringer("effect", effect),
		zap.Uint64("height", height),
	)
	return result
}

func (r *Runtime) execute(ctx context.Context, mu state.Mutable, call *Call) (*piggybank.Effect, error) {
	instance, err := storage.GetContract(ctx, mu, call.Contract)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, call.Contract)
		}
		return nil, err
	}
	contract, ok := r.registry.Lookup(instance.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, instance.Name)
	}
	entrypoint, ok := contract.Entrypoint(call.Entrypoint)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownEntrypoint, instance.Name, call.Entrypoint)
	}
	if !entrypoint.Payable && call.Amount > 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotPayable, instance.Name, call.Entrypoint)
	}
	if len(call.Params) > r.cfg.MaxParamSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrParamTooLarge, len(call.Params), r.cfg.MaxParamSize)
	}

	// Attached value is held by the instance before the handler runs
	if call.Amount > 0 {
		if _, err := storage.SubBalance(ctx, mu, call.Sender, call.Amount); err != nil {
			return nil, err
		}
		if _, err := storage.AddBalance(ctx, mu, call.Contract, call.Amount); err != nil {
			return nil, err
		}
	}
	balance, err := storage.GetBalance(ctx, mu, call.Contract)
	if err != nil {
		return nil, err
	}
	st, err := storage.GetContractState(ctx, mu, call.Contract)
	if err != nil {
		return nil, err
	}

	pctx := newCallContext(instance.Owner, call.Params).
		WithSender(call.Sender).
		WithBalance(balance)
	prev := st
	effect, err := entrypoint.Invoke(pctx, call.Amount, &st)
	if err != nil {
		return nil, err
	}
	if st != prev {
		if err := storage.SetContractState(ctx, mu, call.Contract, st); err != nil {
			return nil, err
		}
	}
	if err := r.apply(ctx, mu, call.Contract, effect); err != nil {
		return nil, err
	}
	if st != prev && st == piggybank.Smashed {
		r.metrics.smashes.Inc()
	}
	return effect, nil
}

func (r *Runtime) apply(ctx context.Context, mu state.Mutable, contract codec.Address, effect *piggybank.Effect) error {
	switch effect.Kind {
	case piggybank.EffectAccept:
		return nil
	case piggybank.EffectTransfer:
		if effect.Amount == 0 {
			return nil
		}
		if _, err := storage.SubBalance(ctx, mu, contract, effect.Amount); err != nil {
			return err
		}
		if _, err := storage.AddBalance(ctx, mu, effect.To, effect.Amount); err != nil {
			return err
		}
		r.metrics.swept.Add(float64(effect.Amount))
		return nil
	default:
		return fmt.Errorf("%w: %d", piggybank.ErrUnknownEffect, effect.Kind)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrContractNotFound)
}

// Submit verifies and executes a signed transaction as its actor. Invalid
// signatures and nonces are returned as errors and change nothing. Once the
// nonce matches it is consumed, even if the action itself fails.
func (r *Runtime) Submit(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.Submit")
	defer span.End()

	if tx.Auth == nil {
		return nil, ErrMissingAuth
	}
	msg, err := tx.Digest()
	if err != nil {
		return nil, err
	}
	if err := tx.Auth.Verify(ctx, msg); err != nil {
		r.metrics.transactions.WithLabelValues(outcomeFailure).Inc()
		return nil, err
	}
	actor := tx.Auth.Actor()

	r.l.Lock()
	defer r.l.Unlock()

	height := r.height.Load() + 1
	var (
		keys     state.Keys
		call     *Call
		deploy   *Deploy
		contract codec.Address
	)
	switch action := tx.Action.(type) {
	case *Deploy:
		deploy = action
		contract = ContractAddress(actor, height)
		keys = deployKeys(contract)
	case *Call:
		c := *action
		c.Sender = actor
		call = &c
		owner, err := r.owner(ctx, call.Contract)
		if err != nil {
			return nil, err
		}
		keys = callKeys(call, owner)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, tx.Action)
	}
	keys.Add(string(storage.NonceKey(actor)), state.All)
	view := tstate.NewView(r.db, keys)

	nonce, err := storage.GetNonce(ctx, view, actor)
	if err != nil {
		return nil, err
	}
	if nonce != tx.Nonce {
		r.metrics.transactions.WithLabelValues(outcomeFailure).Inc()
		return nil, fmt.Errorf("%w: expected %d, found %d", ErrInvalidNonce, nonce, tx.Nonce)
	}
	if _, err := storage.IncNonce(ctx, view, actor); err != nil {
		return nil, err
	}

	var result *Result
	if call != nil {
		result = r.invoke(ctx, view, call, height)
	} else {
		restore := view.OpIndex()
		err := r.deploy(ctx, view, contract, actor, deploy.Contract, deploy.Params)
		if err != nil {
			view.Rollback(ctx, restore)
		}
		result = newResult(height, err)
		if err == nil {
			result.Contract = contract
		}
	}
	if err := r.commit(ctx, view, height); err != nil {
		return nil, err
	}
	r.metrics.transactions.WithLabelValues(outcome(result.Success)).Inc()
	r.log.Debug("transaction executed",
		zap.Stringer("txID", tx.ID()),
		zap.Stringer("actor", actor),
		zap.Uint64("nonce", nonce),
		zap.Bool("success", result.Success),
		zap.Uint64("height", height),
	)
	return result, nil
}

func (r *Runtime) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	return storage.GetBalance(ctx, r.db, addr)
}

// Nonce is the nonce the next transaction from [addr] must carry.
func (r *Runtime) Nonce(ctx context.Context, addr codec.Address) (uint64, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	return storage.GetNonce(ctx, r.db, addr)
}

func (r *Runtime) Instance(ctx context.Context, addr codec.Address) (*Instance, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	c, err := storage.GetContract(ctx, r.db, addr)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, addr)
		}
		return nil, err
	}
	st, err := storage.GetContractState(ctx, r.db, addr)
	if err != nil {
		return nil, err
	}
	bal, err := storage.GetBalance(ctx, r.db, addr)
	if err != nil {
		return nil, err
	}
	return &Instance{
		Address:  addr,
		Contract: c.Name,
		Owner:    c.Owner,
		State:    st,
		Balance:  bal,
	}, nil
}
