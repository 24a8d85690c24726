package logic

import "github.com/google/wire"

// Provider sets binding the unexported implementations to their interfaces.
var (
	RedemptionLogicProviderSet = wire.NewSet(NewRedemptionLogic, wire.Bind(new(RedemptionLogic), new(*redemptionLogic)))
	PricingLogicProviderSet    = wire.NewSet(NewPricingLogic, wire.Bind(new(PricingLogic), new(*pricingLogic)))
	BillLogicProviderSet       = wire.NewSet(NewBillLogic, wire.Bind(new(BillLogic), new(*billLogic)))
)
