package test

import (
	"github.com/vaultsig/cggmp21/pkg/party"
	"github.com/vaultsig/cggmp21/pkg/protocol"
)

// HandlerLoop blocks until the handler has finished, shuttling messages
// between the handler and the network.
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) {
	for {
		select {
		// outgoing messages
		case msg, ok := <-h.Listen():
			if !ok {
				<-network.Done(id)
				// the channel was closed, indicating that the protocol is done.
				return
			}
			go network.Send(msg)

		// incoming messages
		case msg := <-network.Next(id):
			h.Accept(msg)
		}
	}
}
