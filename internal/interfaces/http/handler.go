package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/application/pubsub"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type handler struct {
	vestingSvc application.VestingService
	pubsubSvc  *pubsub.Service
	timeout    time.Duration
}

func newHandler(
	vestingSvc application.VestingService, pubsubSvc *pubsub.Service,
	timeout time.Duration,
) *handler {
	return &handler{vestingSvc, pubsubSvc, timeout}
}

func (h *handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func wait(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("wait"))
	return ok
}

func (h *handler) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	msg, err := parseMessage(req)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	settle := wait(c)
	id, err := h.vestingSvc.SendMessage(ctx, msg, settle)
	if err != nil {
		abortWithError(c, err)
		return
	}
	res := sendMessageResponse{MessageID: id}
	if settle {
		res.Transaction = h.findTransaction(ctx, msg.Destination, id)
	}
	c.JSON(http.StatusOK, res)
}

// findTransaction returns the record of the delivery of the given message
// to dest, if any.
func (h *handler) findTransaction(
	ctx context.Context, dest domain.Address, msgID string,
) *transactionView {
	txs, err := h.vestingSvc.ListTransactionsForAddress(ctx, dest, nil)
	if err != nil {
		return nil
	}
	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].MessageID == msgID {
			tx := newTransactionView(txs[i])
			return &tx
		}
	}
	return nil
}

func (h *handler) deployFactory(c *gin.Context) {
	var req deployFactoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	registry, err := parseOptionalAddress("registry", req.Registry)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	template, err := parseHex("template", req.Template)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.vestingSvc.DeployFactory(ctx, application.DeployFactoryReq{
		Owner:         owner,
		Registry:      registry,
		RoyaltyFee:    req.RoyaltyFee,
		MinCreateCost: req.MinCreateCost,
		Template:      template,
	}, wait(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployResponse{res.Address.String(), res.MessageID})
}

func (h *handler) deployRegistry(c *gin.Context) {
	var req deployRegistryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.vestingSvc.DeployRegistry(
		ctx, application.DeployRegistryReq{Owner: owner}, wait(c),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployResponse{res.Address.String(), res.MessageID})
}

func (h *handler) getFactory(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	info, err := h.vestingSvc.GetFactory(c.Request.Context(), addr)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFactoryView(info))
}

func (h *handler) getWalletAddress(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	var q grantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err)
		return
	}
	params, err := parseGrantParams(q)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	wallet, err := h.vestingSvc.GetWalletAddress(c.Request.Context(), addr, params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": wallet.String()})
}

func (h *handler) getAccount(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	var at int64
	if s := c.Query("at"); len(s) > 0 {
		if at, err = strconv.ParseInt(s, 10, 64); err != nil {
			abortBadRequest(c, err)
			return
		}
	}
	sender, err := parseOptionalAddress("sender", c.Query("sender"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	info, err := h.vestingSvc.GetVestingAccount(
		c.Request.Context(), addr, at, sender,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountView(info))
}

func (h *handler) listAccounts(c *gin.Context) {
	owner, err := parseOptionalAddress("owner", c.Query("owner"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	var at int64
	if s := c.Query("at"); len(s) > 0 {
		if at, err = strconv.ParseInt(s, 10, 64); err != nil {
			abortBadRequest(c, err)
			return
		}
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err)
		return
	}
	infos, err := h.vestingSvc.ListVestingAccounts(
		c.Request.Context(), owner, at, q.toDomain(),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	accounts := make([]accountView, 0, len(infos))
	for i := range infos {
		accounts = append(accounts, newAccountView(&infos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *handler) getRegistry(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	info, err := h.vestingSvc.GetRegistry(c.Request.Context(), addr)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRegistryView(info))
}

func (h *handler) getRegistryWallets(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	index, err := domain.ParseRegistryIndex(c.Query("by"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	key, err := parseAddress("key", c.Query("key"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	wallets, err := h.vestingSvc.GetRegistryWallets(
		c.Request.Context(), addr, index, key,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	list := make([]string, 0, len(wallets))
	for _, w := range wallets {
		list = append(list, w.String())
	}
	c.JSON(http.StatusOK, gin.H{"wallets": list})
}

func (h *handler) mintAsset(c *gin.Context) {
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	issuer, err := parseAddress("issuer", req.Issuer)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	holder, err := parseAddress("holder", req.Holder)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		abortBadRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.vestingSvc.MintAsset(ctx, application.MintReq{
		Issuer: issuer, Holder: holder, Amount: amount,
	}, wait(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployResponse{res.Address.String(), res.MessageID})
}

func (h *handler) getAssetBalance(c *gin.Context) {
	issuer, err := parseAddress("issuer", c.Param("issuer"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	holder, err := parseAddress("holder", c.Param("holder"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	balance, err := h.vestingSvc.GetAssetBalance(
		c.Request.Context(), issuer, holder,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *handler) listTransactions(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err)
		return
	}
	txs, err := h.vestingSvc.ListTransactions(c.Request.Context(), q.toDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactionsView(txs).toJSON()})
}

func (h *handler) listTransactionsForAddress(c *gin.Context) {
	addr, err := parseAddress("address", c.Param("addr"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBadRequest(c, err)
		return
	}
	txs, err := h.vestingSvc.ListTransactionsForAddress(
		c.Request.Context(), addr, q.toDomain(),
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactionsView(txs).toJSON()})
}

func (h *handler) addWebhook(c *gin.Context) {
	if h.pubsubSvc == nil {
		abortWithError(c, application.ErrWebhookManagerNotInitialized)
		return
	}
	var req addWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	event, err := parseWebhookEvent(req.Event)
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	id, err := h.pubsubSvc.AddWebhook(c.Request.Context(), webhook{
		event: event, endpoint: req.Endpoint, secret: req.Secret,
	})
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *handler) removeWebhook(c *gin.Context) {
	if h.pubsubSvc == nil {
		abortWithError(c, application.ErrWebhookManagerNotInitialized)
		return
	}
	if err := h.pubsubSvc.RemoveWebhook(
		c.Request.Context(), c.Param("id"),
	); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listWebhooks(c *gin.Context) {
	if h.pubsubSvc == nil {
		abortWithError(c, application.ErrWebhookManagerNotInitialized)
		return
	}
	event, err := parseWebhookEvent(c.Query("event"))
	if err != nil {
		abortBadRequest(c, err)
		return
	}
	hooks, err := h.pubsubSvc.ListWebhooks(c.Request.Context(), event)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": webhooksView(hooks).toJSON()})
}

func (h *handler) listContracts(c *gin.Context) {
	kind := domain.ContractKind(c.Query("kind"))
	switch kind {
	case "", domain.KindFactory, domain.KindRegistry,
		domain.KindVestingAccount, domain.KindAssetWallet:
	default:
		abortBadRequest(c, fmt.Errorf("unknown contract kind %s", kind))
		return
	}
	contracts, err := h.vestingSvc.ListContracts(c.Request.Context(), kind)
	if err != nil {
		abortWithError(c, err)
		return
	}
	list := make([]contractView, 0, len(contracts))
	for _, ct := range contracts {
		list = append(list, contractView{
			Address:    ct.Address.String(),
			Kind:       string(ct.Kind),
			CodeHash:   ct.CodeHash,
			DeployedAt: ct.DeployedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"contracts": list})
}
